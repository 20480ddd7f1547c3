package main

import (
	"fmt"
	"log"
	"time"
)

const (
	btnSendDoc   = "📄 Send Document"
	btnSendMpesa = "🧾 Send Mpesa Text / Screenshot"
	btnHelp      = "❓ Help"
)

const operatorHelp = "👋 Operator mode is ready.\n\n" +
	"📩 Reply with text as the bot:\n" +
	"/reply <userId> <your message>\n\n" +
	"📁 Send a file as the bot:\n" +
	"1. Run /file <userId> Optional caption (or /file2 for the next two files).\n" +
	"2. Then upload the document or photo in the next message."

const stageFirstGuidance = "To send this file to a user, first run:\n" +
	"/file <userId> Optional caption"

const inactiveNotice = "⚠️ The bot is currently inactive and will resume in the morning. Please try again later."

const docHowTo = "📄 How to send your document:\n\n" +
	"1️⃣ Tap the 📎 (attachment) or + icon in Telegram.\n" +
	"2️⃣ Choose File (not Gallery/Photo).\n" +
	"3️⃣ Select your DOC/PDF and send.\n\n" +
	"Once I receive it, I’ll ask for your Mpesa payment."

const helpText = "❓ Quick help:\n\n" +
	"1️⃣ Tap 📄 Send Document to see how to upload your file.\n" +
	"2️⃣ Tap 🧾 Send Mpesa Text / Screenshot to see how to send your payment.\n" +
	"3️⃣ After both are received, your report will be processed and sent here."

const paymentReceivedReply = "✅ I’ve received your payment details.\n\n" +
	"Your file will now be queued for processing.\n" +
	"You’ll receive your report here once it’s ready."

// Router orchestrates inbound events against the time gate, the classifier
// and the delivery registry, and emits outbound actions through the
// transport. It keeps no state of its own; the registry holds the single
// pending-delivery slot.
type Router struct {
	cfg        Config
	transport  Transport
	registry   *DeliveryRegistry
	window     ActiveWindow
	classifier *Classifier
	now        func() time.Time
}

func NewRouter(cfg Config, transport Transport, registry *DeliveryRegistry, window ActiveWindow, classifier *Classifier) *Router {
	return &Router{
		cfg:        cfg,
		transport:  transport,
		registry:   registry,
		window:     window,
		classifier: classifier,
		now:        time.Now,
	}
}

// HandleEvent resolves one inbound event in bounded steps. Delivery
// failures are reported to the initiating party and never abort the rest of
// the event.
func (r *Router) HandleEvent(ev Event) {
	if ev.SenderID == r.cfg.OperatorID {
		r.handleOperator(ev)
		return
	}

	// Regular users are gated by the active window; the operator never is.
	if !r.window.IsActive(r.now()) {
		r.reply(ev.ChatID, inactiveNotice)
		return
	}

	switch ev.Kind {
	case eventStart:
		r.handleUserStart(ev)
	case eventDocument, eventPhoto:
		r.handleUserFile(ev)
	case eventText:
		r.handleUserText(ev)
	}
}

func (r *Router) handleOperator(ev Event) {
	switch ev.Kind {
	case eventStart:
		r.reply(ev.ChatID, operatorHelp)
	case eventDocument, eventPhoto:
		r.handleOperatorFile(ev)
	case eventText:
		if isCommandText(ev.Text) {
			r.handleOperatorCommand(ev)
			return
		}
		// Plain operator chatter is not routed anywhere.
		log.Printf("operator text ignored: %q", truncateErr(ev.Text, 80))
	}
}

func (r *Router) handleOperatorCommand(ev Event) {
	cmd, err := parseCommand(ev.Text)
	if err != nil {
		r.reply(ev.ChatID, err.Error())
		return
	}

	switch c := cmd.(type) {
	case RelayCommand:
		if err := r.transport.SendText(c.UserID, c.Text); err != nil {
			log.Printf("relay failed: target=%d err=%v", c.UserID, err)
			r.reply(ev.ChatID, fmt.Sprintf("❌ Failed to send message: %s", truncateErr(err.Error(), 350)))
			return
		}
		log.Printf("relay sent: target=%d", c.UserID)
		r.reply(ev.ChatID, fmt.Sprintf("✅ Message sent to user %d", c.UserID))
	case StageCommand:
		staged := r.registry.Stage(r.cfg.OperatorID, c.UserID, c.Caption, c.Count)
		log.Printf("delivery staged: id=%s target=%d count=%d", staged.ID, c.UserID, c.Count)
		noun := "file"
		if c.Count > 1 {
			noun = fmt.Sprintf("%d files", c.Count)
		}
		r.reply(ev.ChatID, fmt.Sprintf("📌 Staged: next %s will go to user %d (delivery %s).", noun, c.UserID, staged.ID))
	case UnknownCommand:
		r.reply(ev.ChatID, "🤔 Unknown command. Send /start for usage.")
	}
}

func (r *Router) handleOperatorFile(ev Event) {
	d, ok := r.registry.ConsumeOne(r.cfg.OperatorID)
	if !ok {
		r.reply(ev.ChatID, stageFirstGuidance)
		return
	}

	var err error
	if ev.Kind == eventPhoto {
		err = r.transport.SendPhoto(d.TargetID, ev.FileID, d.Caption)
	} else {
		err = r.transport.SendDocument(d.TargetID, ev.FileID, d.Caption)
	}
	if err != nil {
		log.Printf("delivery failed: id=%s target=%d err=%v", d.ID, d.TargetID, err)
		r.reply(ev.ChatID, fmt.Sprintf("❌ Failed to send file: %s", truncateErr(err.Error(), 350)))
		return
	}

	log.Printf("delivery sent: id=%s target=%d remaining=%d", d.ID, d.TargetID, d.Remaining)
	notice := fmt.Sprintf("✅ File sent to user %d", d.TargetID)
	if d.Remaining > 0 {
		notice += fmt.Sprintf(" (%d more file(s) staged for this user)", d.Remaining)
	}
	r.reply(ev.ChatID, notice)
}

func (r *Router) handleUserStart(ev Event) {
	log.Printf("new user started: id=%d username=%q", ev.SenderID, ev.Username)

	if err := r.transport.SendKeyboard(ev.ChatID, r.welcomeText(), welcomeKeyboard()); err != nil {
		log.Printf("welcome send failed: chat=%d err=%v", ev.ChatID, err)
	}
	r.notifyOperator(fmt.Sprintf("🔥 New user started the bot:\n%s", senderMeta(ev)))
}

// handleUserFile fans out to exactly three sends: the operator metadata
// notice, the verbatim forward, and the payment-request reply. Each attempt
// is independent; one failure never suppresses the other two.
func (r *Router) handleUserFile(ev Event) {
	log.Printf("user file: sender=%d kind=%s", ev.SenderID, ev.Kind)

	r.notifyOperator(fmt.Sprintf("📨 %s from user:\n%s", fileNoun(ev.Kind), senderMeta(ev)))
	if err := r.transport.Forward(r.cfg.OperatorID, ev.ChatID, ev.MessageID); err != nil {
		log.Printf("forward to operator failed: sender=%d err=%v", ev.SenderID, err)
	}
	r.reply(ev.ChatID, r.paymentRequestText())
}

func (r *Router) handleUserText(ev Event) {
	// Keyboard buttons answer locally and are never routed to the operator.
	switch ev.Text {
	case btnSendDoc:
		r.reply(ev.ChatID, docHowTo)
		return
	case btnSendMpesa:
		r.reply(ev.ChatID, r.mpesaHowToText())
		return
	case btnHelp:
		r.reply(ev.ChatID, helpText)
		return
	}

	verdict := r.classifier.Classify(ev.Text)
	log.Printf("user text: sender=%d label=%q", ev.SenderID, verdict.Label())

	r.notifyOperator(fmt.Sprintf("📨 New %s from user:\n%s", verdict.Label(), senderMeta(ev)))
	if err := r.transport.Forward(r.cfg.OperatorID, ev.ChatID, ev.MessageID); err != nil {
		log.Printf("forward to operator failed: sender=%d err=%v", ev.SenderID, err)
	}

	switch {
	case verdict.Underpaid:
		r.reply(ev.ChatID, r.underpaymentText(verdict.Amount))
	case verdict.IsPayment:
		r.reply(ev.ChatID, paymentReceivedReply)
	}
	// Ordinary chat gets no auto-reply; the operator answers via /reply.
}

func (r *Router) welcomeText() string {
	return fmt.Sprintf("Welcome!\n\n"+
		"This bot receives your document and your Mpesa payment, and sends back your report.\n\n"+
		"✅ Lipa Na Mpesa Till Number: %s\n\n"+
		"📌 Instructions:\n"+
		"1️⃣ Send your document here as a file (not as a photo).\n"+
		"2️⃣ Send your Mpesa payment text or screenshot.\n"+
		"3️⃣ Wait for confirmation and then receive your report.\n\n"+
		"💰 Pricing\n"+
		"• Price / check: %d KES\n"+
		"• Recheck: %d KES",
		r.cfg.MerchantTill, r.cfg.PriceCheck, r.cfg.PriceRecheck)
}

func (r *Router) paymentRequestText() string {
	return fmt.Sprintf("📄 I’ve received your file.\n\n"+
		"Now please send your Mpesa payment text or screenshot.\n\n"+
		"✅ Lipa Na Mpesa Till Number: %s\n"+
		"💰 Price per check: %d KES (recheck %d KES)\n"+
		"Once payment is confirmed, your report will be processed.",
		r.cfg.MerchantTill, r.cfg.PriceCheck, r.cfg.PriceRecheck)
}

func (r *Router) mpesaHowToText() string {
	return fmt.Sprintf("🧾 How to send your Mpesa payment:\n\n"+
		"1️⃣ Pay via Lipa Na Mpesa Till Number %s.\n"+
		"2️⃣ Copy the Mpesa SMS text or take a screenshot.\n"+
		"3️⃣ Paste the text here, or send the screenshot.\n\n"+
		"Once I detect the payment, I’ll confirm and start processing your report.",
		r.cfg.MerchantTill)
}

func (r *Router) underpaymentText(amount float64) string {
	return fmt.Sprintf("⚠️ I’ve received your payment details, but the amount (%.2f KES) looks lower than expected (%.2f KES).\n\n"+
		"Please top up the difference or reply here if this is a recheck.",
		amount, r.cfg.MinPaymentAmount)
}

// notifyOperator is best-effort: a failed notice is logged and the rest of
// the event continues.
func (r *Router) notifyOperator(text string) {
	if err := r.transport.SendText(r.cfg.OperatorID, text); err != nil {
		log.Printf("operator notify failed: err=%v", err)
	}
}

func (r *Router) reply(chatID int64, text string) {
	if err := r.transport.SendText(chatID, text); err != nil {
		log.Printf("send text failed: chat=%d err=%v", chatID, err)
	}
}

func welcomeKeyboard() [][]string {
	return [][]string{
		{btnSendDoc},
		{btnSendMpesa},
		{btnHelp},
	}
}

func isCommandText(text string) bool {
	return len(text) > 0 && text[0] == '/'
}

func fileNoun(kind EventKind) string {
	if kind == eventPhoto {
		return "Photo"
	}
	return "Document"
}

func senderMeta(ev Event) string {
	username := ev.Username
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf("Name: %s %s\nUsername: @%s\nUser ID: %d",
		ev.FirstName, ev.LastName, username, ev.SenderID)
}
