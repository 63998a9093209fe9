package mail

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig describes the outbound relay.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPDispatcher sends HTML email through an SMTP relay, upgrading to TLS
// when the server offers STARTTLS.
type SMTPDispatcher struct {
	cfg      SMTPConfig
	renderer *Renderer
	now      func() time.Time
}

func NewSMTPDispatcher(cfg SMTPConfig, r *Renderer) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, renderer: r, now: time.Now}
}

// Send renders msg and delivers it. Cancelling ctx aborts the SMTP
// conversation at any stage.
func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	body, err := d.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	m, err := d.compose(msg.To, msg.Subject, body)
	if err != nil {
		return err
	}

	dialer := &ctxDialer{ctx: ctx}
	defer dialer.release()

	c, err := d.client(dialer)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (d *SMTPDispatcher) compose(to, subject, body string) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(d.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	m.Subject(subject)
	m.SetDateWithValue(d.now())
	m.SetBodyString(gomail.TypeTextHTML, body)

	return m, nil
}

func (d *SMTPDispatcher) client(dialer *ctxDialer) (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(d.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithDialContextFunc(dialer.DialContext),
	}
	if d.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(d.cfg.User),
			gomail.WithPassword(d.cfg.Password),
		)
	}

	return gomail.NewClient(d.cfg.Host, opts...)
}

// ctxDialer ties every dialed connection to ctx: the connection is closed
// as soon as ctx is done, which unblocks any pending read or write.
type ctxDialer struct {
	ctx   context.Context
	stops []func() bool
}

func (d *ctxDialer) DialContext(dialCtx context.Context, network, addr string) (net.Conn, error) {
	var nd net.Dialer
	conn, err := nd.DialContext(dialCtx, network, addr)
	if err != nil {
		return nil, err
	}
	d.stops = append(d.stops, context.AfterFunc(d.ctx, func() { _ = conn.Close() }))
	return conn, nil
}

func (d *ctxDialer) release() {
	for _, stop := range d.stops {
		stop()
	}
}
