// Package ami — необязательный боковой канал к Asterisk Manager
// Interface: перезагрузка PJSIP и диалплана после изменений инвентаря.
// Канал best-effort: сбои логируются и наружу уходят только как bool,
// в таксономию ошибок хранилища они не попадают.
package ami

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config — параметры подключения к AMI.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Client открывает короткоживущее соединение на каждую операцию:
// login → action → logoff. Протокол — CRLF-блоки "Key: Value".
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Port == 0 {
		cfg.Port = 5038
	}
	return &Client{cfg: cfg}
}

// ReloadPJSIP перечитывает конфигурацию PJSIP.
func (c *Client) ReloadPJSIP() error {
	return c.do([][2]string{{"Action", "PJSIPReload"}})
}

// ReloadDialplan перечитывает диалплан (extensions.conf).
func (c *Client) ReloadDialplan() error {
	return c.do([][2]string{{"Action", "Command"}, {"Command", "dialplan reload"}})
}

func (c *Client) do(action [][2]string) error {
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, c.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("ami dial %s: %w", addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.cfg.Timeout))

	r := bufio.NewReader(conn)
	// приветствие вида "Asterisk Call Manager/5.0"
	if _, err := r.ReadString('\n'); err != nil {
		return fmt.Errorf("ami banner: %w", err)
	}

	login := [][2]string{
		{"Action", "Login"},
		{"Username", c.cfg.Username},
		{"Secret", c.cfg.Password},
	}
	if err := writeAction(conn, login); err != nil {
		return fmt.Errorf("ami login: %w", err)
	}
	if err := expectSuccess(r); err != nil {
		return fmt.Errorf("ami login: %w", err)
	}

	if err := writeAction(conn, action); err != nil {
		return fmt.Errorf("ami %s: %w", action[0][1], err)
	}
	if err := expectSuccess(r); err != nil {
		return fmt.Errorf("ami %s: %w", action[0][1], err)
	}

	// logoff — вежливость, на результат не влияет
	_ = writeAction(conn, [][2]string{{"Action", "Logoff"}})
	return nil
}

func writeAction(w io.Writer, fields [][2]string) error {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%s: %s\r\n", f[0], f[1])
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// expectSuccess читает один ответный блок до пустой строки.
// Success и Follows считаем успехом, остальное — отказ.
func expectSuccess(r *bufio.Reader) error {
	status := ""
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "--END COMMAND--") {
			break
		}
		if v, ok := strings.CutPrefix(line, "Response: "); ok {
			status = v
		}
	}
	switch status {
	case "Success", "Follows":
		return nil
	case "":
		return fmt.Errorf("no response status")
	default:
		return fmt.Errorf("response %q", status)
	}
}
