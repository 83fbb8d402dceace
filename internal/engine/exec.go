package engine

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"dailies/internal/services"
)

// commandContext is swapped out by tests.
var commandContext = exec.CommandContext

// run executes one engine invocation and folds a non-zero exit into an
// engine execution error carrying the tool's combined output. The output is
// the only diagnostic an operator gets from a headless render, so it is
// never discarded.
func run(ctx context.Context, logger *slog.Logger, component, binary string, args ...string) error {
	logger.Debug("running engine", "binary", binary, "args", strings.Join(args, " "))
	cmd := commandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrEngineExecution, component, "execute",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}
