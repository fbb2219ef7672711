package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/p2pdesk/internal/adapter/exchange"
	"github.com/polkiloo/p2pdesk/internal/app"
	"github.com/polkiloo/p2pdesk/internal/config"
	"github.com/polkiloo/p2pdesk/internal/desk"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
	"github.com/polkiloo/p2pdesk/internal/server/http/handlers"
	"github.com/polkiloo/p2pdesk/internal/storage/postgres"
	"github.com/polkiloo/p2pdesk/internal/test"
	"go.uber.org/fx"
)

type repositoriesStub struct {
	reviews     *test.ReviewRepositoryStub
	transitions *test.TransitionRepositoryStub
}

func (r repositoriesStub) Reviews() repository.ReviewRepository         { return r.reviews }
func (r repositoriesStub) Transitions() repository.TransitionRepository { return r.transitions }

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		ExchangeAPIAddress: "http://localhost",
		TokenSecret:        "secret",
		OrderPollInterval:  time.Millisecond,
		RequestTimeout:     time.Second,
		ShutdownTimeout:    time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	repos := repositoriesStub{
		reviews:     &test.ReviewRepositoryStub{},
		transitions: &test.TransitionRepositoryStub{},
	}

	var (
		facade   *app.DeskFacade
		bound    handlers.DeskFacade
		registry *desk.Registry
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.Factory(repos)),
			fx.Replace(exchange.Client(&test.ExchangeStub{})),
		),
		fx.Populate(&facade, &bound, &registry),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected desk facade instance")
	}
	if bound != handlers.DeskFacade(facade) {
		t.Fatal("expected handlers to be bound to the desk facade")
	}
	if registry == nil {
		t.Fatal("expected session registry instance")
	}
}
