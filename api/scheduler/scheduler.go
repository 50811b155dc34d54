package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/databases"
	templates "github.com/BrenoBalsini/ultimate-praia-sub000/templates/html"
)

// jobTimeout bounds a single run of any scheduled job
const jobTimeout = 2 * time.Minute

// Scheduler runs the periodic maintenance jobs: the sweep of fully delivered
// solicitacoes and the daily digest of open tickets.
type Scheduler struct {
	cron   *cron.Cron
	SDB    databases.SolicitacaoDatabase
	FDB    databases.FaltaDatabase
	ADB    databases.AlteracaoDatabase
	Mailer Mailer

	digestTo       []string
	sweepSchedule  string
	digestSchedule string
	now            func() time.Time
}

// NewScheduler creates a new scheduler instance. mailer may be nil, which
// disables the digest.
func NewScheduler(conf config.Config, db databases.DatabaseHelper, mailer Mailer) *Scheduler {
	logger := cron.PrintfLogger(zap.NewStdLog(zap.L()))
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		)),
		SDB:            databases.NewSolicitacaoDatabase(db),
		FDB:            databases.NewFaltaDatabase(db),
		ADB:            databases.NewAlteracaoDatabase(db),
		Mailer:         mailer,
		digestTo:       conf.DigestTo,
		sweepSchedule:  conf.SweepSchedule,
		digestSchedule: conf.DigestSchedule,
		now:            time.Now,
	}
}

// Start registers the jobs and begins the scheduler. An invalid schedule is
// returned before anything runs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.sweepSchedule, s.runSweep); err != nil {
		return fmt.Errorf("sweep schedule %q: %w", s.sweepSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.digestSchedule, s.runDigest); err != nil {
		return fmt.Errorf("digest schedule %q: %w", s.digestSchedule, err)
	}

	s.cron.Start()
	zap.S().Infow("scheduler started", "sweep", s.sweepSchedule, "digest", s.digestSchedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.SweepSolicitacoes(ctx); err != nil {
		zap.S().Errorw("solicitacao sweep failed", "error", err)
	}
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.SendDigest(ctx); err != nil {
		zap.S().Errorw("digest failed", "error", err)
	}
}

// SweepSolicitacoes removes requests whose items were all delivered but
// which are still stored, e.g. after a failed delete during delivery.
func (s *Scheduler) SweepSolicitacoes(ctx context.Context) (int64, error) {
	n, err := s.SDB.DeleteFullyDelivered(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		zap.S().Infow("swept delivered solicitacoes", "count", n)
	}
	return n, nil
}

// SendDigest emails the open faltas and alteracoes to the configured
// recipients. It reports whether an email was sent; nothing is sent when the
// mailer or recipients are not configured or when there is nothing open.
func (s *Scheduler) SendDigest(ctx context.Context) (bool, error) {
	if s.Mailer == nil || len(s.digestTo) == 0 {
		zap.S().Debug("digest not configured, skipping")
		return false, nil
	}

	faltas, err := s.FDB.Find(ctx, bson.M{"falta.resolvida": false})
	if err != nil {
		return false, fmt.Errorf("faltas: %w", err)
	}
	alteracoes, err := s.ADB.Find(ctx, bson.M{"alteracao.resolvida": false})
	if err != nil {
		return false, fmt.Errorf("alteracoes: %w", err)
	}
	if len(faltas) == 0 && len(alteracoes) == 0 {
		zap.S().Info("no open tickets, digest skipped")
		return false, nil
	}

	subject := templates.DigestSubject(s.now())
	page, err := templates.RenderDigestEmail(subject, faltas, alteracoes)
	if err != nil {
		return false, fmt.Errorf("render digest: %w", err)
	}
	if err := s.Mailer.Send(ctx, s.digestTo, subject, templates.DigestText(faltas, alteracoes), page); err != nil {
		return false, err
	}

	zap.S().Infow("digest sent", "recipients", len(s.digestTo), "faltas", len(faltas), "alteracoes", len(alteracoes))
	return true, nil
}
