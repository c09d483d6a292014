package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/department-portal/pkg/auth"
	"github.com/Astemirdum/department-portal/pkg/circuit_breaker"
	"github.com/Astemirdum/department-portal/pkg/kafka"
	"github.com/Astemirdum/department-portal/pkg/postgres"
	"github.com/Astemirdum/department-portal/pkg/sqlite"
	"github.com/Astemirdum/department-portal/portal/config"
	"github.com/Astemirdum/department-portal/portal/internal/handler"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/Astemirdum/department-portal/portal/internal/repository"
	"github.com/Astemirdum/department-portal/portal/internal/server"
	"github.com/Astemirdum/department-portal/portal/internal/service"
	"github.com/Astemirdum/department-portal/portal/internal/store"
	"github.com/Astemirdum/department-portal/portal/migrations"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func NewStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory, "":
		return store.NewMemory(), nil
	case config.DriverSQLite:
		db, err := sqlite.NewSQLiteDB(&cfg.SQLite, migrations.SQLite)
		if err != nil {
			return nil, err
		}
		return store.NewSQLite(db, log), nil
	case config.DriverPostgres:
		pool, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.Postgres)
		if err != nil {
			return nil, err
		}
		return store.NewPostgres(pool, log), nil
	}
	return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Portal is the wired service plus everything that must be closed with it.
type Portal struct {
	Service *service.Service

	store     store.Store
	publisher *kafka.Publisher
}

func NewPortal(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Portal, error) {
	st, err := NewStorage(ctx, cfg, log)
	if err != nil {
		return nil, errors.Wrap(err, "storage")
	}
	repo, err := repository.NewRepository(st, log)
	if err != nil {
		st.Close()
		return nil, errors.Wrap(err, "repo")
	}

	p := &Portal{store: st}
	opts := []service.Option{
		service.WithLoanPeriod(cfg.Library.LoanPeriod),
		service.WithRestockOnReturn(cfg.Library.RestockOnReturn),
	}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Warn("kafka.NewProducer: events disabled", zap.Error(err))
		} else {
			p.publisher = kafka.NewPublisher(producer, circuit_breaker.New(100, time.Second, 0.2, 2), log)
			opts = append(opts, service.WithNotifier(p.publisher))
		}
	}
	p.Service = service.NewService(repo, log, opts...)

	if len(cfg.AdminEmails) > 0 {
		admins := make([]model.VerifiedEmail, 0, len(cfg.AdminEmails))
		for _, email := range cfg.AdminEmails {
			admins = append(admins, model.VerifiedEmail{Email: email, Role: model.RoleAdmin})
		}
		if _, err := p.Service.AddVerifiedEmails(ctx, admins); err != nil {
			p.Close()
			return nil, errors.Wrap(err, "admin emails")
		}
	}
	return p, nil
}

func (p *Portal) Close() error {
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			return err
		}
	}
	return p.store.Close()
}

func Run(cfg *config.Config, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	portal, err := NewPortal(ctx, cfg, log)
	if err != nil {
		log.Fatal("portal init", zap.Error(err))
	}
	svc := portal.Service

	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.PortalConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		defer consumer.Close()
		go func() {
			if err := kafka.Consume(ctx, consumer, handler.NewConsumer(svc.AddVerifiedEmails, log), kafka.VerifiedEmailsTopic); err != nil {
				log.Error("kafka.Consume", zap.Error(err))
			}
		}()
	}

	h := handler.New(svc, auth.NewTokenManager(cfg.Auth), log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("storage", cfg.Storage.Driver))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err = portal.Close(); err != nil {
		log.Error("portal.Close", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
