package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketbot/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/request"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// shutdownTimeout bounds the graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Setup returns the setup flow.
	Setup() *ticketing.SetupFlow

	// Tickets returns the ticket manager.
	Tickets() *ticketing.Manager
}

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the bot configuration.
	cfg *config.Config

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store holds every guild's ticket configuration.
	store *dataaccess.Store

	setup   *ticketing.SetupFlow
	tickets *ticketing.Manager

	// components routes component clicks. It is refilled on every Ready.
	components *componentRegistry

	// throttle limits how fast each user can click.
	throttle *clickThrottle

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	cfg *config.Config,
	r *mux.Router,
	s *discordgo.Session,
	store *dataaccess.Store,
	setup *ticketing.SetupFlow,
	tickets *ticketing.Manager,
	throttle *clickThrottle,
) *App {
	return &App{
		Logger:     l,
		cfg:        cfg,
		r:          r,
		s:          s,
		store:      store,
		setup:      setup,
		tickets:    tickets,
		components: newComponentRegistry(),
		throttle:   throttle,
	}
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.RegisterBot()

	configs, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading ticket configs: %w", err)
	}
	a.Info("Loaded ticket configs", slog.Int("guilds", len(configs)))

	a.RegisterDiscordHandlers()

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	<-ctx.Done()
	a.Info("Received shutdown signal")

	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	// Countdowns that have not reached deletion are abandoned; the channels stay.
	if err := a.tickets.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error stopping ticket countdowns: %w", err))
	}

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) RegisterBot() {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Interactions arrive without any intent; guilds keep the state cache and guild count filled.
	a.s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds)

	if a.eventNotifier == nil {
		// Create event notifier. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	a.s.SetEventNotifier(a.eventNotifier)
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) RegisterDiscordHandlers() {
	a.s.AddHandler(a.readyHandler())

	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]interactionProcessor{
			setupCmdName: setupCmdHandler,
		},
		// Modal Controllers
		map[string]interactionProcessor{
			ticketing.SetupModalID: setupModalHandler,
		},
		a.components,
	))
}

// readyHandler runs on every (re)connect: it routes the persistent controls again so panels and
// ticket buttons sent before a restart keep working, then syncs the slash commands.
func (a *App) readyHandler() func(s *discordgo.Session, r *discordgo.Ready) {
	return func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info("Logged in", slog.String("username", r.User.Username))

		a.registerPersistentControls()

		if _, err := s.ApplicationCommandBulkOverwrite(a.cfg.ApplicationId, "", []*discordgo.ApplicationCommand{setupCmd}); err != nil {
			a.Error("Error syncing slash commands", slog.String(logging.KeyError, err.Error()))
			return
		}
		a.Info("Synced slash commands")
	}
}

func (a *App) registerPersistentControls() {
	for _, id := range ticketing.PersistentControls() {
		p, ok := ticketControls[id]
		if !ok {
			a.Error("No processor for persistent control", slog.String("id", id))
			continue
		}
		a.components.Register(id, p)
	}
	a.components.RegisterPrefix(ticketing.RoleSelectIDPrefix, roleSelectHandler)
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Setup() *ticketing.SetupFlow {
	return a.setup
}

func (a *App) Tickets() *ticketing.Manager {
	return a.tickets
}
