package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"NewsPublisher/internal/domain"
	"NewsPublisher/internal/ports"
	"NewsPublisher/pkg/logger"
)

const (
	defaultExcerptLength = 3000
	defaultTimeout       = 15 * time.Second

	maxMessageRunes = 4096
	maxTitleRunes   = 512

	// markdownSpecials are the runes tgbotapi.EscapeText prefixes in legacy Markdown.
	markdownSpecials = "_*`["
)

// ErrNotConfigured is returned when the bot token or chat id is missing.
var ErrNotConfigured = errors.New("telegram notifier misconfigured")

var bridgeOnce sync.Once

// BridgeLibraryLogger routes telegram-bot-api's package-level logger into base.
// Only the first call takes effect.
func BridgeLibraryLogger(base *slog.Logger) {
	bridgeOnce.Do(func() {
		_ = tgbotapi.SetLogger(logger.New("telegram-bot-api", base))
	})
}

// Config carries bot credentials and delivery limits.
type Config struct {
	BotToken      string
	ChatID        string
	APIEndpoint   string
	Timeout       time.Duration
	ExcerptLength int
}

// Notifier announces published articles to a Telegram chat via bot API.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier. No network call is made until the first announcement.
func NewNotifier(cfg Config, log *slog.Logger) *Notifier {
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = defaultExcerptLength
	}
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log,
	}
}

// Announce posts a Markdown message about article.
func (n *Notifier) Announce(ctx context.Context, article domain.Article) error {
	if n.cfg.BotToken == "" || n.cfg.ChatID == "" {
		n.logger.Error("telegram bot token or chat id not set")
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := n.botAPI()
	if err != nil {
		return err
	}

	msg := n.message(FormatMessage(article, n.cfg.ExcerptLength))
	sent, err := bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	n.logger.Info("message sent to telegram", "chat", n.cfg.ChatID, "message_id", sent.MessageID, "link", article.Link)
	return nil
}

func (n *Notifier) botAPI() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(n.cfg.BotToken, n.cfg.APIEndpoint, n.client)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	n.bot = bot
	return bot, nil
}

func (n *Notifier) message(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(n.cfg.ChatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(n.cfg.ChatID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = false
	return msg
}

// FormatMessage renders the announcement in Telegram legacy Markdown. The whole
// escaped message is kept within maxMessageRunes by shortening the title and excerpt.
func FormatMessage(article domain.Article, excerptLength int) string {
	link := strings.ReplaceAll(article.Link, ")", "%29")
	title := fitEscaped(strings.TrimSpace(article.Title), maxTitleRunes)

	head := "📢 *" + title + "*\n\n"
	tail := "\n\n🔗 [Read more](" + link + ")"
	budget := maxMessageRunes - utf8.RuneCountInString(head) - utf8.RuneCountInString(tail)

	return head + fitEscaped(Excerpt(article.Content, excerptLength), budget) + tail
}

// fitEscaped escapes text for legacy Markdown and cuts it so the escaped form
// has at most budget runes, ellipsis included.
func fitEscaped(text string, budget int) string {
	if escapedLen(text) <= budget {
		return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
	}
	if budget <= 0 {
		return ""
	}

	used := 0
	var b strings.Builder
	for _, r := range text {
		n := 1
		if strings.ContainsRune(markdownSpecials, r) {
			n = 2
		}
		if used+n > budget-1 {
			break
		}
		b.WriteRune(r)
		used += n
	}
	cut := strings.TrimRight(b.String(), " ")
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, cut) + "…"
}

func escapedLen(text string) int {
	n := 0
	for _, r := range text {
		n++
		if strings.ContainsRune(markdownSpecials, r) {
			n++
		}
	}
	return n
}

// Excerpt strips HTML from content, collapses whitespace and cuts it to at most limit runes.
func Excerpt(content string, limit int) string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:limit-1]), " ") + "…"
}
