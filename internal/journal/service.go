package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tiger-gateway/internal/event"
	"tiger-gateway/internal/model"
	"tiger-gateway/internal/store"
)

// EventType 表示留痕事件类型。
type EventType string

const (
	EventOrder   EventType = "order"
	EventTrade   EventType = "trade"
	EventAccount EventType = "account"
	EventLog     EventType = "log"
)

// Entry 为一条留痕记录。
type Entry struct {
	ID        int64           `json:"id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Service 把网关发布的订单、成交、资金与日志事件持久化到 SQLite，
// 用于盘后审计与问题排查。行情事件量大且可重放，不入库。
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService 初始化留痕服务并创建表结构。
func NewService(store *store.Store, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("journal: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		db:     store.DB(),
		logger: logger,
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS gateway_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_gateway_events_type ON gateway_events(event_type);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("journal: 初始化表失败: %w", err)
	}
	return nil
}

// Attach 把留痕回调挂载到事件引擎上。
func (s *Service) Attach(engine *event.Engine) error {
	if err := engine.Subscribe(event.TopicOrder, s.recordOrder); err != nil {
		return fmt.Errorf("journal: 订阅订单事件失败: %w", err)
	}
	if err := engine.Subscribe(event.TopicTrade, s.recordTrade); err != nil {
		return fmt.Errorf("journal: 订阅成交事件失败: %w", err)
	}
	if err := engine.Subscribe(event.TopicAccount, s.recordAccount); err != nil {
		return fmt.Errorf("journal: 订阅资金事件失败: %w", err)
	}
	if err := engine.Subscribe(event.TopicLog, s.recordLog); err != nil {
		return fmt.Errorf("journal: 订阅日志事件失败: %w", err)
	}
	return nil
}

func (s *Service) recordOrder(order model.OrderData) {
	s.record(EventOrder, order)
}

func (s *Service) recordTrade(trade model.TradeData) {
	s.record(EventTrade, trade)
}

func (s *Service) recordAccount(account model.AccountData) {
	s.record(EventAccount, account)
}

func (s *Service) recordLog(log model.LogData) {
	s.record(EventLog, log)
}

func (s *Service) record(eventType EventType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("序列化留痕事件失败",
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
		return
	}

	_, err = s.db.Exec(
		"INSERT INTO gateway_events (event_type, payload, created_at) VALUES (?, ?, ?)",
		string(eventType),
		string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Warn("写入留痕事件失败",
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
	}
}

// ListEvents 按类型倒序列出最近的留痕记录，eventType 为空时不过滤。
func (s *Service) ListEvents(ctx context.Context, eventType EventType, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 200
	}

	query := "SELECT id, event_type, payload, created_at FROM gateway_events"
	args := make([]interface{}, 0, 2)
	if eventType != "" {
		query += " WHERE event_type = ?"
		args = append(args, string(eventType))
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: 查询留痕记录失败: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var eventTypeRaw, payload, createdAt string
		if err := rows.Scan(&entry.ID, &eventTypeRaw, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("journal: 扫描留痕记录失败: %w", err)
		}
		entry.Type = EventType(eventTypeRaw)
		entry.Payload = json.RawMessage(payload)
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
