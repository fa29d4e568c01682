package batch

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ironsheep/label-vectorizer/internal/log"
)

// cronLogger routes cron's own messages into the process logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.L().Sugar().Debugw(logTag+"cron "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.L().Sugar().Errorw(logTag+"cron "+msg, append(keysAndValues, "error", err)...)
}

// ValidateSchedule checks a standard five-field cron spec or a descriptor
// such as "@hourly" or "@every 10m".
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Schedule runs job on spec until ctx is cancelled, then waits for a
// running job to return. A tick that arrives while the previous job is
// still running is skipped.
func Schedule(ctx context.Context, spec string, job func(context.Context)) error {
	if err := ValidateSchedule(spec); err != nil {
		return err
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	log.Info(logTag+"scheduled", zap.String("spec", spec))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Info(logTag+"schedule stopped", zap.String("spec", spec))
	return nil
}
