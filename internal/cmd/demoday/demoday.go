// Package demoday parses admin command flags and runs demo-day operations
// against the local database.
package demoday

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/service"
	"github.com/venturehq/demoday/internal/demoday/storage/sqlite"
	entrypoint "github.com/venturehq/demoday/internal/platform/cmd"
	"github.com/venturehq/demoday/internal/platform/id"
)

// Config holds demo-day admin command configuration.
type Config struct {
	DBPath  string        `env:"DEMODAY_DB_PATH"`
	Timeout time.Duration `env:"DEMODAY_ADMIN_TIMEOUT" envDefault:"1m"`

	CreateEvent      bool
	AddParticipant   bool
	ListParticipants bool
	Activate         bool
	RequestLead      bool
	ReviewLead       bool
	RecomputeProfile bool

	EventID       string
	Slug          string
	Name          string
	Email         string
	IdentityID    string
	ParticipantID string
	TeamID        string
	Type          string
	Filter        string
	OrderBy       string
	PageSize      int
	PageToken     string
	Approve       bool
	Reject        bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "demoday.db")
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "demo-day database path (default: DEMODAY_DB_PATH or data/demoday.db)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")

	fs.BoolVar(&cfg.CreateEvent, "create-event", false, "create an event (-slug, -name)")
	fs.BoolVar(&cfg.AddParticipant, "add-participant", false, "add a participant (-event plus -identity or -email/-name, -participant-type)")
	fs.BoolVar(&cfg.ListParticipants, "list-participants", false, "list event participants (-event, optional -filter/-order-by)")
	fs.BoolVar(&cfg.Activate, "activate", false, "activate an invited participant on access (-event, -identity)")
	fs.BoolVar(&cfg.RequestLead, "request-lead", false, "record a founder team-lead request (-event, -participant)")
	fs.BoolVar(&cfg.ReviewLead, "review-lead", false, "review a team-lead request (-event, -participant, -approve or -reject)")
	fs.BoolVar(&cfg.RecomputeProfile, "recompute-profile", false, "re-derive a fundraising profile status (-event, -team)")

	fs.StringVar(&cfg.EventID, "event", "", "event ID")
	fs.StringVar(&cfg.Slug, "slug", "", "event slug")
	fs.StringVar(&cfg.Name, "name", "", "event or participant name")
	fs.StringVar(&cfg.Email, "email", "", "participant email")
	fs.StringVar(&cfg.IdentityID, "identity", "", "identity ID")
	fs.StringVar(&cfg.ParticipantID, "participant", "", "participant ID")
	fs.StringVar(&cfg.TeamID, "team", "", "team ID")
	fs.StringVar(&cfg.Type, "participant-type", "INVESTOR", "participant type (INVESTOR or FOUNDER)")
	fs.StringVar(&cfg.Filter, "filter", "", "participant filter expression")
	fs.StringVar(&cfg.OrderBy, "order-by", "", "participant order_by expression")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "participant page size")
	fs.StringVar(&cfg.PageToken, "page-token", "", "participant page token")
	fs.BoolVar(&cfg.Approve, "approve", false, "approve the reviewed lead request")
	fs.BoolVar(&cfg.Reject, "reject", false, "reject the reviewed lead request")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	actions := 0
	for _, selected := range []bool{
		cfg.CreateEvent, cfg.AddParticipant, cfg.ListParticipants,
		cfg.Activate, cfg.RequestLead, cfg.ReviewLead, cfg.RecomputeProfile,
	} {
		if selected {
			actions++
		}
	}
	if actions != 1 {
		return Config{}, errors.New("exactly one action flag is required")
	}
	return cfg, nil
}

// Run executes the selected admin action and writes the result as JSON.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDemoday, func(ctx context.Context) error {
		return run(ctx, cfg, out)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	svc := service.New(service.Deps{Tx: store, Stores: store.Stores()})
	defer svc.Drain()

	var result any
	switch {
	case cfg.CreateEvent:
		result, err = createEvent(ctx, store, cfg)
	case cfg.AddParticipant:
		result, err = svc.AddParticipant(ctx, service.AddParticipantInput{
			EventID:    cfg.EventID,
			IdentityID: cfg.IdentityID,
			Email:      cfg.Email,
			Name:       cfg.Name,
			Type:       domain.ParticipantTypeFromLabel(cfg.Type),
		})
	case cfg.ListParticipants:
		result, err = svc.ListParticipants(ctx, service.ListParticipantsInput{
			EventID:   cfg.EventID,
			Filter:    cfg.Filter,
			OrderBy:   cfg.OrderBy,
			PageSize:  cfg.PageSize,
			PageToken: cfg.PageToken,
		})
	case cfg.Activate:
		result, err = svc.ActivateOnAccess(ctx, cfg.EventID, cfg.IdentityID)
	case cfg.RequestLead:
		result, err = svc.RequestTeamLead(ctx, cfg.EventID, cfg.ParticipantID)
	case cfg.ReviewLead:
		if cfg.Approve == cfg.Reject {
			return service.ErrLeadReviewDecisionNeeded
		}
		result, err = svc.ReviewTeamLeadRequest(ctx, cfg.EventID, cfg.ParticipantID, cfg.Approve)
	case cfg.RecomputeProfile:
		result, err = svc.RecomputeProfileStatus(ctx, cfg.TeamID, cfg.EventID)
	default:
		return errors.New("no action selected")
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func createEvent(ctx context.Context, store *sqlite.Store, cfg Config) (domain.Event, error) {
	slug := strings.TrimSpace(cfg.Slug)
	name := strings.TrimSpace(cfg.Name)
	if slug == "" || name == "" {
		return domain.Event{}, errors.New("create-event requires -slug and -name")
	}

	eventID, err := id.NewID()
	if err != nil {
		return domain.Event{}, fmt.Errorf("generate event id: %w", err)
	}
	now := time.Now().UTC()
	event := domain.Event{
		ID:        eventID,
		Slug:      slug,
		Name:      name,
		StartsAt:  now,
		EndsAt:    now,
		Status:    domain.EventStatusUpcoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Stores().Events.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}
