package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "feature-inspector/internal/application"
	"feature-inspector/internal/container"
	"feature-inspector/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я проверяю детали по шаблону.

1️⃣ Выберите шаблон: /template <id>
2️⃣ (необязательно) отправьте фото детали
3️⃣ Отправьте JSON с детекциями и углами детали

📋 Команды:
/templates — список шаблонов
/template <id> — выбрать шаблон
/history — последние проверки шаблона
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Формат детекций (файлом .json или текстом):

{
  "strategy": "TOPOLOGY",
  "corners": [{"x":0,"y":0},{"x":400,"y":0},{"x":400,"y":400},{"x":0,"y":400}],
  "detections": [{"classId":0,"center":{"x":100,"y":100},"width":20,"height":20,"confidence":0.9}]
}

Углы перечисляются по порядку: левый верхний, правый верхний, правый нижний, левый нижний.
Стратегии: TOPOLOGY (нужны углы), COORDINATE, CROP_AREA.`

	msgChooseTemplate   = "📐 Сначала выберите шаблон: /template <id>. Список: /templates"
	msgTemplateSelected = "✅ Шаблон %s выбран. Отправьте фото детали или сразу JSON с детекциями."
	msgTemplateNotFound = "❓ Шаблон %s не найден. Список: /templates"
	msgNoTemplates      = "📭 Шаблонов пока нет."
	msgPhotoReceived    = "📸 Фото получено. Теперь отправьте JSON с детекциями."
	msgCancelled        = "❌ Операция отменена. Выберите шаблон: /template <id>"
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgSendDetections   = "📄 Отправьте JSON с детекциями. Формат: /help"
	msgProcessing       = "⏳ Проверяю деталь..."
	msgBadRequest       = "⚠️ Не удалось разобрать детекции: %v"
	msgProcessingError  = "⚠️ Не удалось выполнить проверку. Попробуйте ещё раз."
	msgNoHistory        = "📭 Проверок по шаблону %s ещё не было."

	historyLimit = 5
)

// Bot представляет Telegram-бота
type Bot struct {
	api *tgbotapi.BotAPI
	c   *container.Container
	log *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	c.Log.Info("telegram bot authorized", "account", api.Self.UserName)

	return &Bot{
		api: api,
		c:   c,
		log: c.Log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// JSON с детекциями файлом или текстом
	if msg.Document != nil {
		data, err := b.downloadFile(msg.Document.FileID)
		if err != nil {
			b.log.Error("download document", "error", err)
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		b.handleDetections(ctx, msg, data)
		return
	}
	if text := strings.TrimSpace(msg.Text); strings.HasPrefix(text, "{") {
		b.handleDetections(ctx, msg, []byte(text))
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendDetections)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.c.InspectionService.Cancel(ctx, userID, chatID); err != nil {
			b.log.Error("reset user", "user_id", userID, "error", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "templates":
		ids, err := b.c.TemplateService.List(ctx)
		if err != nil {
			b.log.Error("list templates", "error", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, formatTemplateList(ids))

	case "template":
		id := strings.TrimSpace(msg.CommandArguments())
		if id == "" {
			b.sendMessage(chatID, msgChooseTemplate)
			return
		}
		if _, err := b.c.InspectionService.BeginInspection(ctx, userID, chatID, id); err != nil {
			if errors.Is(err, entity.ErrTemplateNotFound) {
				b.sendMessage(chatID, fmt.Sprintf(msgTemplateNotFound, id))
				return
			}
			b.log.Error("select template", "template_id", id, "error", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgTemplateSelected, id))

	case "history":
		b.handleHistory(ctx, msg)

	case "cancel":
		if _, err := b.c.InspectionService.Cancel(ctx, userID, chatID); err != nil {
			b.log.Error("cancel", "user_id", userID, "error", err)
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto запоминает фото детали до прихода детекций
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		b.log.Error("download photo", "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	if _, err := b.c.InspectionService.AcceptImage(ctx, msg.From.ID, msg.Chat.ID, imageData); err != nil {
		if errors.Is(err, app.ErrNoTemplateSelected) {
			b.sendMessage(msg.Chat.ID, msgChooseTemplate)
			return
		}
		b.log.Error("accept photo", "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.log.Debug("photo received", "user_id", msg.From.ID, "bytes", len(imageData))
	b.sendMessage(msg.Chat.ID, msgPhotoReceived)
}

// handleDetections запускает проверку и отвечает вердиктом и, если есть фото, разметкой
func (b *Bot) handleDetections(ctx context.Context, msg *tgbotapi.Message, data []byte) {
	req, err := app.ParseInspectionRequest(data)
	if err != nil {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgBadRequest, err))
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	out, err := b.c.InspectionService.InspectForUser(ctx, msg.From.ID, msg.Chat.ID, req)
	switch {
	case errors.Is(err, app.ErrNoTemplateSelected):
		b.sendMessage(msg.Chat.ID, msgChooseTemplate)
		return
	case errors.Is(err, entity.ErrTemplateNotFound):
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgTemplateNotFound, req.TemplateID))
		return
	case err != nil:
		b.log.Error("inspection", "user_id", msg.From.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	text := formatResult(out.Record.Result)
	if len(out.Annotated) == 0 {
		b.sendMessage(msg.Chat.ID, text)
		return
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "inspection.jpg", Bytes: out.Annotated})
	photo.Caption = truncateCaption(text)
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error("send photo", "error", err)
		b.sendMessage(msg.Chat.ID, text)
	}
}

// handleHistory показывает последние проверки выбранного шаблона
func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	templateID := strings.TrimSpace(msg.CommandArguments())
	if templateID == "" {
		user, err := b.c.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
		if err != nil {
			b.log.Error("get user", "error", err)
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		templateID = user.TemplateID
	}
	if templateID == "" {
		b.sendMessage(msg.Chat.ID, msgChooseTemplate)
		return
	}

	records, err := b.c.InspectionService.History(ctx, templateID, historyLimit)
	if err != nil {
		b.log.Error("history", "template_id", templateID, "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	if len(records) == 0 {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgNoHistory, templateID))
		return
	}
	b.sendMessage(msg.Chat.ID, formatHistory(records))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}
