package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	applog "loandash/internal/log"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
	maxBackoff  = 30 * time.Second
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrDiscard marks a handler failure that redelivery cannot fix.
	ErrDiscard = errors.New("discard message")
)

// LoanChangedHandler processes one message. Returning an error wrapping
// ErrDiscard drops the message; any other error requeues it.
type LoanChangedHandler func(ctx context.Context, msg *LoanChangedMessage) error

// connection is the part of *amqp091.Connection the client manages.
type connection interface {
	Close() error
	IsClosed() bool
}

// dialFunc opens a connection and a channel with the exchange and queue
// declared.
type dialFunc func(url, exchangeName, queueName string) (connection, *amqp091.Channel, error)

type Client struct {
	url          string
	exchangeName string
	queueName    string
	dial         dialFunc

	// reconnectMu serializes reconnects so only one connection is dialed
	// when several callers find the channel closed.
	reconnectMu sync.Mutex

	mu      sync.Mutex
	conn    connection
	channel *amqp091.Channel

	failureCount int64
	state        int32
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		dial:         dialBroker,
	}
	if err := client.connect(); err != nil {
		return nil, err
	}
	return client, nil
}

// connect dials a fresh connection and swaps it in, closing the one it
// replaces.
func (c *Client) connect() error {
	conn, channel, err := c.dial(c.url, c.exchangeName, c.queueName)
	if err != nil {
		return err
	}

	c.mu.Lock()
	prevConn, prevChannel := c.conn, c.channel
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()

	if prevChannel != nil && !prevChannel.IsClosed() {
		_ = prevChannel.Close()
	}
	if prevConn != nil && !prevConn.IsClosed() {
		_ = prevConn.Close()
	}
	return nil
}

func dialBroker(url, exchangeName, queueName string) (connection, *amqp091.Channel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, exchangeName, queueName); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return conn, channel, nil
}

func setup(channel *amqp091.Channel, exchangeName, queueName string) error {
	err := channel.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key equals the queue name on the direct exchange.
	if err := channel.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// currentChannel returns an open channel, reconnecting if the previous one
// was closed by the broker.
func (c *Client) currentChannel() (*amqp091.Channel, error) {
	if ch := c.openChannel(); ch != nil {
		return ch, nil
	}

	c.reconnectMu.Lock()
	defer c.reconnectMu.Unlock()
	// Another caller may have reconnected while this one waited.
	if ch := c.openChannel(); ch != nil {
		return ch, nil
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	if ch := c.openChannel(); ch != nil {
		return ch, nil
	}
	return nil, amqp091.ErrClosed
}

func (c *Client) openChannel() *amqp091.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil || c.channel.IsClosed() {
		return nil
	}
	return c.channel
}

// PublishLoanChanged publishes a persistent LoanChanged message.
func (c *Client) PublishLoanChanged(ctx context.Context, userID, loanID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish loan changed: %w", ErrCircuitOpen)
	}

	body, err := NewLoanChangedMessage(userID, loanID).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ch, err := c.currentChannel()
	if err != nil {
		c.recordFailure()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	slog.InfoContext(ctx, "Published loan changed message",
		applog.FieldComponent, applog.ComponentAMQP,
		applog.FieldUserID, userID,
		applog.FieldLoanID, loanID,
		"exchange", c.exchangeName)
	return nil
}

// ConsumeLoanChanged delivers messages to handler until ctx is done.
// A closed delivery channel triggers a reconnect with exponential backoff.
func (c *Client) ConsumeLoanChanged(ctx context.Context, handler LoanChangedHandler) error {
	var backoff reconnectBackoff
	for {
		consumed, err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			slog.InfoContext(ctx, "Stopping message consumption",
				applog.FieldComponent, applog.ComponentAMQP,
				"reason", ctx.Err())
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) {
			return err
		}

		wait := backoff.next(consumed)
		slog.WarnContext(ctx, "AMQP consumer disconnected, reconnecting",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldError, err,
			"backoff", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// reconnectBackoff counts failed reconnects since the last session that
// reached the consuming state.
type reconnectBackoff struct {
	attempt int
}

func (b *reconnectBackoff) next(consumed bool) time.Duration {
	if consumed {
		b.attempt = 0
	}
	wait := exponentialBackoff(b.attempt)
	b.attempt++
	return wait
}

// consumeOnce runs one consume session. consumed reports whether the session
// got as far as receiving deliveries.
func (c *Client) consumeOnce(ctx context.Context, handler LoanChangedHandler) (consumed bool, err error) {
	ch, err := c.currentChannel()
	if err != nil {
		return false, err
	}

	msgs, err := ch.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return false, fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming loan changed messages",
		applog.FieldComponent, applog.ComponentAMQP,
		"queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return true, errors.New("message channel closed")
			}
			processDelivery(ctx, delivery, handler)
		}
	}
}

// processDelivery acks on success, drops malformed or discarded messages
// and requeues everything else.
func processDelivery(ctx context.Context, delivery amqp091.Delivery, handler LoanChangedHandler) {
	msg, err := LoanChangedMessageFromJSON(delivery.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal message",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldError, err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		requeue := !errors.Is(err, ErrDiscard)
		slog.ErrorContext(ctx, "Failed to handle message",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldUserID, msg.UserID,
			applog.FieldLoanID, msg.LoanID,
			applog.FieldError, err,
			"requeue", requeue)
		_ = delivery.Nack(false, requeue)
		return
	}

	_ = delivery.Ack(false)
	slog.DebugContext(ctx, "Processed loan changed message",
		applog.FieldComponent, applog.ComponentAMQP,
		applog.FieldUserID, msg.UserID,
		applog.FieldLoanID, msg.LoanID)
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel closed", "dial"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
