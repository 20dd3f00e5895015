package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/usecase"
)

// uploadSession bitta chat uchun yuklangan fayllar holati
type uploadSession struct {
	TemplateData []byte
	TemplateName string
	ProductData  []byte
	ProductName  string
	ProductType  string
	LastUpdate   time.Time
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot            *tgbotapi.BotAPI
	listingUseCase usecase.ListingUseCase

	sessionMu sync.RWMutex
	sessions  map[int64]*uploadSession
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(token string, listingUseCase usecase.ListingUseCase) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:            bot,
		listingUseCase: listingUseCase,
		sessions:       make(map[int64]*uploadSession),
	}, nil
}

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	log.Printf("Bot @%s ishga tushdi!", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot to'xtatilmoqda...")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if message.Text != "" {
		h.sendMessage(message.Chat.ID, "Excel fayl yuboring yoki /help ni bosing.")
	}
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, h.getWelcomeMessage())
	case "help":
		h.sendMessage(message.Chat.ID, h.getHelpMessage())
	case "type":
		h.handleTypeCommand(message)
	case "run":
		h.handleRunCommand(ctx, message)
	case "reset":
		h.clearSession(message.Chat.ID)
		h.sendMessage(message.Chat.ID, "✅ Sessiya tozalandi. Yangi fayllarni yuborishingiz mumkin.")
	case "runs":
		h.handleRunsCommand(ctx, message)
	default:
		h.sendMessage(message.Chat.ID, "Noma'lum komanda. /help yordam uchun.")
	}
}

// handleTypeCommand product type ni qo'lda belgilash
func (h *BotHandler) handleTypeCommand(message *tgbotapi.Message) {
	productType := strings.TrimSpace(message.CommandArguments())
	if productType == "" {
		h.sendMessage(message.Chat.ID, "Foydalanish: /type <product_type>\nMasalan: /type kitchen")
		return
	}

	h.updateSession(message.Chat.ID, func(s *uploadSession) {
		s.ProductType = productType
	})
	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Product type belgilandi: %s", productType))
}

// handleDocumentMessage Excel fayl yuborilganda
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	doc := message.Document

	// Fayl hajmini tekshirish (20MB)
	if doc.FileSize > 20*1024*1024 {
		h.sendMessage(message.Chat.ID, "❌ Fayl hajmi 20MB dan oshmasligi kerak!")
		return
	}

	name := strings.ToLower(doc.FileName)
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xlsm") {
		h.sendMessage(message.Chat.ID, "❌ Faqat Excel fayllari (.xlsx, .xlsm) qabul qilinadi!")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Fayl yuklanmoqda...")

	fileBytes, err := h.downloadFile(doc.FileID)
	if err != nil {
		log.Printf("File download error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Faylni yuklashda xatolik yuz berdi.")
		return
	}

	session := h.updateSession(message.Chat.ID, func(s *uploadSession) {
		if isTemplateFilename(name) {
			s.TemplateData = fileBytes
			s.TemplateName = doc.FileName
		} else {
			s.ProductData = fileBytes
			s.ProductName = doc.FileName
		}
	})

	if isTemplateFilename(name) {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("📋 Shablon qabul qilindi: %s", doc.FileName))
	} else {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("📦 Mahsulot fayli qabul qilindi: %s", doc.FileName))
	}

	if session.TemplateData != nil && session.ProductData != nil {
		h.sendMessage(message.Chat.ID, "✅ Ikkala fayl tayyor. Boshlash uchun /run ni bosing.")
	} else if session.TemplateData == nil {
		h.sendMessage(message.Chat.ID, "Endi Amazon shablon faylini yuboring (nomida \"Vorlage\" yoki \"Flat.File\" bo'lsin).")
	} else {
		h.sendMessage(message.Chat.ID, "Endi mahsulot ma'lumotlari faylini yuboring.")
	}
}

// handleRunCommand batch ni ishga tushirish
func (h *BotHandler) handleRunCommand(ctx context.Context, message *tgbotapi.Message) {
	session := h.sessionSnapshot(message.Chat.ID)

	if session.TemplateData == nil || session.ProductData == nil {
		h.sendMessage(message.Chat.ID, "❌ Avval shablon va mahsulot fayllarini yuboring. /help yordam uchun.")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Listing yaratilmoqda, bu bir necha daqiqa olishi mumkin...")

	typingAction := tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatUploadDocument)
	h.bot.Send(typingAction)

	output, report, err := h.listingUseCase.RunBytes(ctx,
		session.TemplateData, session.ProductData,
		session.TemplateName, session.ProductName,
		session.ProductType)
	if err != nil {
		log.Printf("Run error: %v", err)
		h.sendMessage(message.Chat.ID, h.describeRunError(err))
		return
	}

	outName := outputFilename(session.TemplateName)
	docMsg := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  outName,
		Bytes: output,
	})
	docMsg.Caption = h.describeReport(report)
	if _, err := h.bot.Send(docMsg); err != nil {
		log.Printf("Faylni yuborishda xatolik: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Tayyor faylni yuborib bo'lmadi.")
		return
	}

	h.clearSession(message.Chat.ID)
}

// handleRunsCommand so'nggi run tarixini ko'rsatish
func (h *BotHandler) handleRunsCommand(ctx context.Context, message *tgbotapi.Message) {
	reports, err := h.listingUseCase.RecentRuns(ctx, 5)
	if err != nil {
		h.sendMessage(message.Chat.ID, "❌ Tarixni olishda xatolik.")
		return
	}

	if len(reports) == 0 {
		h.sendMessage(message.Chat.ID, "Hali run lar yo'q.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📜 So'nggi run lar:\n\n")
	for i, r := range reports {
		sb.WriteString(fmt.Sprintf("%d. %s | %s | %d/%d muvaffaqiyatli\n",
			i+1, r.StartedAt.Format("2006-01-02 15:04"), r.ProductType, r.Succeeded, r.Total))
	}
	h.sendMessage(message.Chat.ID, sb.String())
}

// describeRunError xatoni foydalanuvchiga tushunarli qilib yozish
func (h *BotHandler) describeRunError(err error) string {
	var cfgErr *entity.ConfigurationError
	if errors.As(err, &cfgErr) {
		return fmt.Sprintf("❌ Shablon konfiguratsiyasi xato: %s\nTo'g'ri Amazon shablon faylini yuboring.", cfgErr.Reason)
	}

	var recErr *entity.RecognitionError
	if errors.As(err, &recErr) {
		return fmt.Sprintf("❌ Shablon formati tanilmadi: %s\nXML yoki Flat File formatdagi shablon kerak.", recErr.Reason)
	}

	return "❌ Xatolik yuz berdi. Fayllarni tekshirib qayta urinib ko'ring."
}

// describeReport run natijasi haqida qisqa xulosa
func (h *BotHandler) describeReport(report *entity.RunReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Tayyor! %d/%d mahsulot muvaffaqiyatli.\n", report.Succeeded, report.Total))
	sb.WriteString(fmt.Sprintf("Format: %s", report.Dialect))
	if report.ProductType != "" {
		sb.WriteString(fmt.Sprintf(" | Product type: %s", report.ProductType))
	}

	if len(report.Failures) > 0 {
		sb.WriteString("\n\n⚠️ O'tkazib yuborilgan mahsulotlar:\n")
		for _, f := range report.Failures {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", f.SKU, f.Reason))
		}
	}
	return sb.String()
}

// sendMessage oddiy matnli xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Xabar yuborishda xatolik: %v", err)
	}
}

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	fileURL := file.Link(h.bot.Token)
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// updateSession sessiyani lock ostida o'zgartirib, nusxasini qaytaradi.
// Parallel yuklash va /run bir sessiya ustida race qilmasligi kerak.
func (h *BotHandler) updateSession(chatID int64, fn func(*uploadSession)) uploadSession {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()

	session, ok := h.sessions[chatID]
	if !ok {
		session = &uploadSession{}
		h.sessions[chatID] = session
	}
	fn(session)
	session.LastUpdate = time.Now()
	return *session
}

// sessionSnapshot sessiyaning joriy nusxasini olish
func (h *BotHandler) sessionSnapshot(chatID int64) uploadSession {
	h.sessionMu.RLock()
	defer h.sessionMu.RUnlock()

	if session, ok := h.sessions[chatID]; ok {
		return *session
	}
	return uploadSession{}
}

// clearSession chat sessiyasini o'chirish
func (h *BotHandler) clearSession(chatID int64) {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()
	delete(h.sessions, chatID)
}

// isTemplateFilename fayl nomiga qarab shablon yoki mahsulot fayli ekanini aniqlash
func isTemplateFilename(name string) bool {
	for _, keyword := range []string{"vorlage", "template", "flat.file", "flatfile", "flat_file"} {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// outputFilename shablon nomidan natija fayl nomini yasash.
// Kengaytma saqlanadi - xlsm shablonlardagi makrolar yo'qolmasligi kerak.
func outputFilename(templateName string) string {
	ext := ".xlsx"
	base := templateName
	if i := strings.LastIndex(templateName, "."); i > 0 {
		ext = templateName[i:]
		base = templateName[:i]
	}
	return fmt.Sprintf("%s_filled_%s%s", base, time.Now().Format("20060102_150405"), ext)
}

func (h *BotHandler) getWelcomeMessage() string {
	return `👋 Salom! Men Amazon listing yaratish botiman.

Menga ikkita Excel fayl yuboring:
1️⃣ Amazon shablon fayli (Vorlage / Flat File)
2️⃣ Mahsulot ma'lumotlari fayli

Keyin /run ni bossangiz, AI yordamida nemischa listing content yaratib, to'ldirilgan shablonni qaytaraman.

/help - batafsil yordam`
}

func (h *BotHandler) getHelpMessage() string {
	return `📖 Yordam

Fayllar:
• Shablon fayli nomida "Vorlage" yoki "Flat File" bo'lishi kerak
• Boshqa barcha Excel fayllar mahsulot fayli deb qabul qilinadi

Komandalar:
/run - listing yaratishni boshlash
/type <nomi> - product type ni qo'lda belgilash
/runs - so'nggi run lar tarixi
/reset - yuklangan fayllarni tozalash

Har bir mahsulot uchun: 1 titel, 5 bullet point, 5 suchbegriff yaratiladi. Majburiy maydonlar aqlli default lar bilan to'ldiriladi.`
}
