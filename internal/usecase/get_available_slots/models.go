package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги, задает ширину слота
	Date       time.Time // Календарная дата (время и пояс игнорируются)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time // Начало дня в часовом поясе бизнеса
	BusinessID      int64
	ServiceID       int64
	DurationMinutes int               // Длительность услуги
	Slots           []domain.TimeSlot // Слоты в хронологическом порядке, пусто - бизнес закрыт
}

// Исходы расчета для метрик
const (
	outcomeSlots  = "slots"
	outcomeClosed = "closed"
	outcomeError  = "error"
)
