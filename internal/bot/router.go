package bot

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"

	"grabbit/internal/callback"
)

// MessageHandler handles one slash command. args are the whitespace tokens
// after the command itself.
type MessageHandler func(ctx context.Context, msg telego.Message, args []string) error

// CallbackHandler handles one inline button press. fields are the decoded
// schema fields, or nil for exact-data routes.
type CallbackHandler func(ctx context.Context, query telego.CallbackQuery, fields []string) error

type commandRoute struct {
	command string
	handler MessageHandler
}

type callbackRoute struct {
	prefix  string
	match   func(data string) bool
	decode  func(data string) ([]string, error)
	handler CallbackHandler
}

// Router dispatches updates to handlers. Routes are registered once at
// startup; dispatch walks them in registration order and the first match
// wins. Unmatched updates are dropped silently.
type Router struct {
	username  string
	commands  []commandRoute
	callbacks []callbackRoute
}

func NewRouter(botUsername string) *Router {
	return &Router{username: botUsername}
}

func (r *Router) HandleCommand(command string, h MessageHandler) {
	r.commands = append(r.commands, commandRoute{command: command, handler: h})
}

// HandleCallbackExact matches callback data byte for byte.
func (r *Router) HandleCallbackExact(data string, h CallbackHandler) {
	r.callbacks = append(r.callbacks, callbackRoute{
		prefix:  data,
		match:   func(d string) bool { return d == data },
		handler: h,
	})
}

// HandleCallbackSchema matches tokens by schema prefix and hands the handler
// the decoded fields. Tokens that match the prefix but fail to decode are
// treated as unmatched.
func (r *Router) HandleCallbackSchema(s callback.Schema, h CallbackHandler) {
	r.callbacks = append(r.callbacks, callbackRoute{
		prefix:  s.Prefix,
		match:   s.Match,
		decode:  s.Decode,
		handler: h,
	})
}

// ParseCommand splits message text into a command name and arguments. The
// command must be the first token; a @botname suffix addressed to this bot
// is stripped, one addressed to another bot does not match.
func (r *Router) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}

	tokens := strings.Fields(text)
	name := strings.TrimPrefix(tokens[0], "/")

	if at := strings.Index(name, "@"); at >= 0 {
		if r.username != "" && !strings.EqualFold(name[at+1:], r.username) {
			return "", nil, false
		}
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}
	return name, tokens[1:], true
}

// DispatchMessage routes a message to the first matching command handler.
// It reports whether any route matched; handler errors pass through
// untouched.
func (r *Router) DispatchMessage(ctx context.Context, msg telego.Message) (bool, error) {
	name, args, ok := r.ParseCommand(msg.Text)
	if !ok {
		return false, nil
	}

	for _, route := range r.commands {
		if route.command == name {
			return true, route.handler(ctx, msg, args)
		}
	}
	return false, nil
}

// DispatchCallback routes a callback query by its data token. Returns the
// matched route's prefix for metrics, or "" when nothing matched.
func (r *Router) DispatchCallback(ctx context.Context, query telego.CallbackQuery) (string, error) {
	for _, route := range r.callbacks {
		if !route.match(query.Data) {
			continue
		}

		var fields []string
		if route.decode != nil {
			var err error
			fields, err = route.decode(query.Data)
			if err != nil {
				continue
			}
		}
		return route.prefix, route.handler(ctx, query, fields)
	}
	return "", nil
}
