package demoday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"path/filepath"
	"testing"

	"github.com/venturehq/demoday/internal/demoday/service"
)

func TestParseConfigRequiresOneAction(t *testing.T) {
	fs := flag.NewFlagSet("demoday", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("no action accepted")
	}

	fs = flag.NewFlagSet("demoday", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-create-event", "-activate"}); err == nil {
		t.Fatal("two actions accepted")
	}

	fs = flag.NewFlagSet("demoday", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-create-event", "-slug", "s", "-name", "n"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.CreateEvent || cfg.Slug != "s" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseConfigEnvDBPath(t *testing.T) {
	t.Setenv("DEMODAY_DB_PATH", "/tmp/env.db")

	fs := flag.NewFlagSet("demoday", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-list-participants", "-event", "event-1"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("db path = %q, want env override", cfg.DBPath)
	}
}

func TestRunReviewLeadRequiresDecision(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "demoday.db")
	ctx := context.Background()

	for _, cfg := range []Config{
		{DBPath: dbPath, ReviewLead: true, EventID: "event-1", ParticipantID: "part-1"},
		{DBPath: dbPath, ReviewLead: true, EventID: "event-1", ParticipantID: "part-1", Approve: true, Reject: true},
	} {
		err := Run(ctx, cfg, nil)
		if !errors.Is(err, service.ErrLeadReviewDecisionNeeded) {
			t.Errorf("approve=%v reject=%v err = %v, want ErrLeadReviewDecisionNeeded", cfg.Approve, cfg.Reject, err)
		}
	}
}

func TestRunCreateEventAndAddParticipant(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "demoday.db")
	ctx := context.Background()

	var out bytes.Buffer
	err := Run(ctx, Config{
		DBPath:      dbPath,
		CreateEvent: true,
		Slug:        "spring",
		Name:        "Spring Demo Day",
	}, &out)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	var event struct {
		ID   string
		Slug string
	}
	if err := json.Unmarshal(out.Bytes(), &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.ID == "" || event.Slug != "spring" {
		t.Fatalf("event = %+v", event)
	}

	out.Reset()
	err = Run(ctx, Config{
		DBPath:         dbPath,
		AddParticipant: true,
		EventID:        event.ID,
		Email:          "founder@example.com",
		Name:           "Ada Founder",
		Type:           "FOUNDER",
	}, &out)
	if err != nil {
		t.Fatalf("add participant: %v", err)
	}
	var participant struct {
		ID     string
		Status int
	}
	if err := json.Unmarshal(out.Bytes(), &participant); err != nil {
		t.Fatalf("decode participant: %v", err)
	}
	if participant.ID == "" {
		t.Fatalf("participant = %+v", participant)
	}

	out.Reset()
	err = Run(ctx, Config{
		DBPath:           dbPath,
		ListParticipants: true,
		EventID:          event.ID,
	}, &out)
	if err != nil {
		t.Fatalf("list participants: %v", err)
	}
	var page struct {
		Participants []struct{ ID string }
	}
	if err := json.Unmarshal(out.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Participants) != 1 || page.Participants[0].ID != participant.ID {
		t.Fatalf("page = %+v", page)
	}
}
