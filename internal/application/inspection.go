package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"feature-inspector/internal/domain/entity"
	"feature-inspector/internal/domain/port"
	"feature-inspector/internal/logging"
	"feature-inspector/internal/matching"
	"feature-inspector/internal/template"
)

var (
	// ErrRendererNotConfigured аннотированное изображение недоступно
	ErrRendererNotConfigured = errors.New("renderer is not configured")
	// ErrNoTemplateSelected пользователь не выбрал шаблон
	ErrNoTemplateSelected = errors.New("template is not selected")
)

// InspectionRequest входные данные одной инспекции
type InspectionRequest struct {
	TemplateID string                  `json:"templateId,omitempty"`
	Strategy   entity.MatchStrategy    `json:"strategy,omitempty"`
	Corners    []entity.Point          `json:"corners,omitempty"`
	Detections []entity.DetectedObject `json:"detections"`
}

// ParseInspectionRequest разбирает JSON с детекциями и, опционально, углами
func ParseInspectionRequest(data []byte) (InspectionRequest, error) {
	var req InspectionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return InspectionRequest{}, fmt.Errorf("parse inspection request: %w", err)
	}
	if req.Strategy != "" {
		if _, ok := entity.ParseMatchStrategy(string(req.Strategy)); !ok {
			return InspectionRequest{}, fmt.Errorf("unknown match strategy %q", req.Strategy)
		}
	}
	return req, nil
}

// InspectionOutput содержит запись инспекции и картинку с разметкой.
type InspectionOutput struct {
	Record    *entity.InspectionRecord
	Annotated []byte
}

type InspectionService struct {
	users      *UserService
	templates  *TemplateService
	records    port.InspectionRepository
	renderer   port.ResultRenderer
	log        *slog.Logger
	strategy   entity.MatchStrategy
	topology   *matching.TopologyMatcher
	coordinate *matching.CoordinateMatcher
	pending    map[int64][]byte
	mu         sync.RWMutex
}

// NewInspectionService создаёт сервис, который выбирает стратегию, сопоставляет и ведёт журнал.
func NewInspectionService(
	users *UserService,
	templates *TemplateService,
	records port.InspectionRepository,
	renderer port.ResultRenderer,
	cfg matching.Config,
	strategy entity.MatchStrategy,
	log *slog.Logger,
) *InspectionService {
	if strategy == "" {
		strategy = entity.StrategyTopology
	}
	return &InspectionService{
		users:      users,
		templates:  templates,
		records:    records,
		renderer:   renderer,
		log:        log,
		strategy:   strategy,
		topology:   matching.NewTopologyMatcher(cfg),
		coordinate: matching.NewCoordinateMatcher(cfg),
		pending:    make(map[int64][]byte),
	}
}

// Inspect загружает шаблон, запускает выбранную стратегию и сохраняет запись.
// Ошибка возвращается только если шаблон не найден; непройденная проверка это не ошибка.
func (s *InspectionService) Inspect(ctx context.Context, req InspectionRequest) (*entity.InspectionRecord, error) {
	start := time.Now()
	tmpl, err := s.templates.Get(ctx, req.TemplateID)
	if err != nil {
		logging.LogInspectionError(s.log, req.TemplateID, err)
		return nil, err
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.strategy
	}
	result := s.match(tmpl, strategy, req)

	record := &entity.InspectionRecord{
		ID:         uuid.NewString(),
		TemplateID: tmpl.ID(),
		Strategy:   strategy,
		Passed:     result.Passed,
		CreatedAt:  start.UTC(),
		Result:     result,
	}
	if s.records != nil {
		if err := s.records.Save(ctx, record); err != nil {
			s.log.Warn("inspection record not saved", "id", record.ID, "error", err)
		}
	}

	logging.LogInspection(s.log, record.ID, result, time.Since(start))
	return record, nil
}

func (s *InspectionService) match(tmpl *template.FourCornerTemplate, strategy entity.MatchStrategy, req InspectionRequest) *entity.InspectionResult {
	switch strategy {
	case entity.StrategyCoordinate:
		return s.coordinate.Match(tmpl, req.Detections)
	case entity.StrategyCropArea:
		// Снимок уже обрезан по детали: углы есть, если их нашёл детектор
		var result *entity.InspectionResult
		if len(req.Corners) == 4 {
			result = s.topology.Match(tmpl, req.Corners, req.Detections)
		} else {
			result = s.coordinate.Match(tmpl, req.Detections)
		}
		result.MatchStrategy = entity.StrategyCropArea
		return result
	default:
		return s.topology.Match(tmpl, req.Corners, req.Detections)
	}
}

// Annotate рисует результат поверх изображения
func (s *InspectionService) Annotate(ctx context.Context, imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	_ = ctx
	if s.renderer == nil {
		return nil, ErrRendererNotConfigured
	}
	return s.renderer.Render(imageData, result)
}

// Record возвращает сохранённую инспекцию
func (s *InspectionService) Record(ctx context.Context, id string) (*entity.InspectionRecord, error) {
	if s.records == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrRecordNotFound, id)
	}
	return s.records.Get(ctx, id)
}

// History последние инспекции шаблона, новые первыми
func (s *InspectionService) History(ctx context.Context, templateID string, limit int) ([]*entity.InspectionRecord, error) {
	if s.records == nil {
		return []*entity.InspectionRecord{}, nil
	}
	return s.records.ListByTemplate(ctx, templateID, limit)
}

// BeginInspection проверяет, что шаблон существует, и переводит пользователя к ожиданию детекций.
func (s *InspectionService) BeginInspection(ctx context.Context, userID, chatID int64, templateID string) (*entity.User, error) {
	if _, err := s.templates.Get(ctx, templateID); err != nil {
		return nil, err
	}
	return s.users.SelectTemplate(ctx, userID, chatID, templateID)
}

// AcceptImage запоминает снимок детали до прихода детекций.
func (s *InspectionService) AcceptImage(ctx context.Context, userID, chatID int64, image []byte) (*entity.User, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if user.TemplateID == "" {
		return nil, ErrNoTemplateSelected
	}

	// Храним в памяти только последний снимок пользователя
	s.mu.Lock()
	s.pending[userID] = image
	s.mu.Unlock()
	return user, nil
}

// PendingImage снимок, ожидающий детекций
func (s *InspectionService) PendingImage(userID int64) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.pending[userID]
	return img, ok
}

// InspectForUser проверяет деталь по выбранному пользователем шаблону и,
// если есть снимок, возвращает его с разметкой. Пользователь остаётся на том же шаблоне.
func (s *InspectionService) InspectForUser(ctx context.Context, userID, chatID int64, req InspectionRequest) (*InspectionOutput, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if req.TemplateID == "" {
		req.TemplateID = user.TemplateID
	}
	if req.TemplateID == "" {
		return nil, ErrNoTemplateSelected
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	record, err := s.Inspect(ctx, req)
	if err != nil {
		if _, cancelErr := s.Cancel(ctx, userID, chatID); cancelErr != nil {
			s.log.Warn("reset user state", "user_id", userID, "error", cancelErr)
		}
		return nil, err
	}
	if _, err := s.users.SelectTemplate(ctx, userID, chatID, req.TemplateID); err != nil {
		s.log.Warn("restore user state", "user_id", userID, "error", err)
	}
	out := &InspectionOutput{Record: record}

	s.mu.Lock()
	img, ok := s.pending[userID]
	delete(s.pending, userID)
	s.mu.Unlock()
	if ok {
		annotated, err := s.Annotate(ctx, img, record.Result)
		if err != nil {
			s.log.Debug("annotation skipped", "id", record.ID, "error", err)
		} else {
			out.Annotated = annotated
		}
	}
	return out, nil
}

// Cancel забывает снимок и выбранный шаблон
func (s *InspectionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.mu.Lock()
	delete(s.pending, userID)
	s.mu.Unlock()
	return s.users.Cancel(ctx, userID, chatID)
}
