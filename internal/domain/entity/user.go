package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu           UserState = "main_menu"           // В главном меню
	StateAwaitingDetections UserState = "awaiting_detections" // Ожидание файла с детекциями
	StateProcessing         UserState = "processing"          // Идёт инспекция
)

// User представляет пользователя бота
type User struct {
	ID         int64     // Telegram User ID
	ChatID     int64     // Telegram Chat ID
	State      UserState // Текущее состояние пользователя
	TemplateID string    // Выбранный шаблон
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SelectTemplate запоминает шаблон и переводит пользователя к ожиданию детекций
func (u *User) SelectTemplate(templateID string) {
	u.TemplateID = templateID
	u.State = StateAwaitingDetections
}
