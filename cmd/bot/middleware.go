package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/messages"
	"github.com/Jacobbrewer1/ticketbot/pkg/request"
	"github.com/gorilla/mux"
)

// interactionTimeout bounds the platform calls made while handling a single interaction.
const interactionTimeout = 15 * time.Second

// interactionProcessor handles a single interaction.
type interactionProcessor func(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				request.WriteJSON(a.Log(), cw, http.StatusInternalServerError, request.NewMessage("%s", request.ErrInternalServer.Error()))
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has returned.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// componentRegistry routes component custom IDs to their processors. Routes are matched exactly
// first, then by prefix.
type componentRegistry struct {
	mtx      sync.RWMutex
	exact    map[string]interactionProcessor
	prefixes map[string]interactionProcessor
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		exact:    make(map[string]interactionProcessor),
		prefixes: make(map[string]interactionProcessor),
	}
}

// Register routes the custom ID to p, replacing any earlier route.
func (c *componentRegistry) Register(customID string, p interactionProcessor) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.exact[customID] = p
}

// RegisterPrefix routes every custom ID starting with prefix to p.
func (c *componentRegistry) RegisterPrefix(prefix string, p interactionProcessor) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.prefixes[prefix] = p
}

func (c *componentRegistry) Lookup(customID string) (interactionProcessor, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	if p, ok := c.exact[customID]; ok {
		return p, true
	}
	for prefix, p := range c.prefixes {
		if strings.HasPrefix(customID, prefix) {
			return p, true
		}
	}
	return nil, false
}

// interactionRoute identifies an interaction for routing, logging and metrics.
func interactionRoute(i *discordgo.InteractionCreate) (kind, id string) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return "command", i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return "component", i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return "modal", i.ModalSubmitData().CustomID
	default:
		return "other", ""
	}
}

// metricID keeps per-session custom IDs from exploding the metric labels.
func metricID(id string) string {
	if before, _, ok := strings.Cut(id, ":"); ok {
		return before
	}
	return id
}

// interactionHandler routes slash commands, modal submits and component clicks to their processors.
func interactionHandler(a *App, commands, modals map[string]interactionProcessor, components *componentRegistry) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		start := time.Now()
		kind, id := interactionRoute(i)

		l := a.Log().With(
			slog.String("interaction", kind),
			slog.String("id", id),
			slog.String(logging.KeyGuild, i.GuildID),
		)
		l.Debug("Handling interaction")

		outcome := "ok"
		defer func() {
			if rec := recover(); rec != nil {
				outcome = "panic"
				l.Error("Panic in interaction handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if err := respondError(a, i, messages.ErrUserErrorProcessing); err != nil {
					l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
			}

			monitoring.TotalInteractions.WithLabelValues(kind, metricID(id), outcome).Inc()
			monitoring.InteractionDuration.WithLabelValues(kind, metricID(id)).Observe(time.Since(start).Seconds())
		}()

		var (
			processor interactionProcessor
			ok        bool
		)
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			processor, ok = commands[id]
		case discordgo.InteractionModalSubmit:
			processor, ok = modals[id]
		case discordgo.InteractionMessageComponent:
			member := memberID(i)
			if !a.throttle.Allow(member) {
				outcome = "throttled"
				monitoring.TotalThrottled.Inc()
				if err := respondEphemeral(a, i, messages.ErrSlowDown); err != nil {
					l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
				return
			}
			processor, ok = components.Lookup(id)
		default:
			return
		}

		if !ok {
			outcome = "unrouted"
			l.Error("No processor found for interaction")
			if err := respondError(a, i, messages.ErrUserErrorProcessing); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
		defer cancel()

		if err := processor(ctx, a, i); err != nil {
			reply, known := userMessage(err)
			if known {
				outcome = "rejected"
				l.Debug("Interaction rejected", slog.String(logging.KeyError, err.Error()))
			} else {
				outcome = "error"
				l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))
			}

			if err := respondError(a, i, reply); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}

func memberID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
