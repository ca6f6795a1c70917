// Package messaging publica eventos del ledger de stock en RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

var _ inventory.LowStockNotifier = (*LowStockPublisher)(nil)

// LowStockPublisher publica dto.LowStockEvent en una cola durable (routing key = nombre de la cola).
// Mantiene una conexión y abre un canal por publicación: los canales AMQP no son seguros entre goroutines.
type LowStockPublisher struct {
	mu    sync.Mutex
	url   string
	queue string
	conn  *amqp.Connection
	log   *logger.Logger
}

// NewLowStockPublisher conecta al broker y declara la cola.
func NewLowStockPublisher(url, queue string, log *logger.Logger) (*LowStockPublisher, error) {
	p := &LowStockPublisher{url: url, queue: queue, log: log}
	conn, err := p.connect()
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func (p *LowStockPublisher) connect() (*amqp.Connection, error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	defer func() { _ = ch.Close() }()
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declarar cola %s: %w", p.queue, err)
	}
	return conn, nil
}

// NotifyLowStock publica el evento. Si la conexión se cayó, reconecta una vez.
func (p *LowStockPublisher) NotifyLowStock(ctx context.Context, event dto.LowStockEvent) error {
	msg, err := encodeLowStock(event)
	if err != nil {
		return err
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publicar: %w", err)
	}
	p.log.Debug().Str("product_id", event.ProductID).Int64("quantity", event.Quantity).Msg("evento de stock bajo publicado")
	return nil
}

func (p *LowStockPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := p.connect()
		if err != nil {
			return nil, err
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	return ch, nil
}

// Close cierra la conexión con el broker.
func (p *LowStockPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

func encodeLowStock(event dto.LowStockEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: serializar evento: %w", err)
	}
	ts := event.OccurredAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts.UTC(),
		Type:         "stock.low",
		MessageId:    event.StockID + ":" + ts.UTC().Format(time.RFC3339Nano),
		Body:         body,
	}, nil
}
