package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

// command runs one subcommand with the arguments that follow its name.
type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) (any, error)
}

var commands = map[string]command{
	"submit": {usage: "submit <submission.json>", run: (*App).submit},
	"update": {usage: "update <submission.json>", run: (*App).update},
	"view":   {usage: "view <metadataCid>", run: (*App).view},
	"list":   {usage: "list", run: (*App).list},
	"keygen": {usage: "keygen", run: (*App).keygen},
}

type App struct {
	services *service.ClientServices
	out      io.Writer

	logger *logger.Logger
}

// NewApp returns a client that writes command results to out.
func NewApp(services *service.ClientServices, out io.Writer, logger *logger.Logger) (*App, error) {
	if services == nil || services.SubmitService == nil {
		return nil, ErrNoServices
	}

	return &App{
		services: services,
		out:      out,
		logger:   logger,
	}, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w\n%s", ErrNoCommand, Usage())
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w %q\n%s", ErrUnknownCommand, args[0], Usage())
	}

	a.logger.Debug().Str("command", args[0]).Msg("running command")

	result, err := cmd.run(a, ctx, args[1:])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	return a.print(result)
}

// Usage lists every subcommand.
func Usage() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: go-doc-verify-client [flags] <command>\n\ncommands:\n")
	for _, name := range names {
		b.WriteString("  " + commands[name].usage + "\n")
	}
	return b.String()
}

func (a *App) submit(ctx context.Context, args []string) (any, error) {
	submission, err := readSubmission(args)
	if err != nil {
		return nil, err
	}

	receipt, err := a.services.SubmitService.Submit(ctx, submission)
	if err != nil {
		return nil, err
	}

	a.logger.Info().Str("request_id", receipt.RequestID).Str("metadata_cid", receipt.MetadataCID).Msg("request submitted")
	return receipt, nil
}

func (a *App) update(ctx context.Context, args []string) (any, error) {
	submission, err := readSubmission(args)
	if err != nil {
		return nil, err
	}

	receipt, err := a.services.SubmitService.Resubmit(ctx, submission)
	if err != nil {
		return nil, err
	}

	a.logger.Info().Str("request_id", receipt.RequestID).Str("metadata_cid", receipt.MetadataCID).Msg("request updated")
	return receipt, nil
}

func (a *App) view(ctx context.Context, args []string) (any, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, fmt.Errorf("%w: metadata CID", ErrMissingArgument)
	}

	return a.services.SubmitService.View(ctx, args[0])
}

func (a *App) list(ctx context.Context, _ []string) (any, error) {
	records, err := a.services.SubmitService.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.RequestRecord{}
	}
	return records, nil
}

// keygen creates a fresh wallet key. It needs no server.
func (a *App) keygen(_ context.Context, _ []string) (any, error) {
	signer, err := wallet.GeneratePrivateKeySigner()
	if err != nil {
		return nil, err
	}

	return struct {
		Address    string `json:"address"`
		PrivateKey string `json:"privateKey"`
	}{
		Address:    signer.Address(),
		PrivateKey: signer.HexKey(),
	}, nil
}

func (a *App) print(result any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// readSubmission loads a submission description. Relative file paths in it
// are resolved against the directory of the description.
func readSubmission(args []string) (models.Submission, error) {
	if len(args) == 0 || args[0] == "" {
		return models.Submission{}, fmt.Errorf("%w: submission file", ErrMissingArgument)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return models.Submission{}, fmt.Errorf("%w: %w", ErrReadingSubmission, err)
	}

	var submission models.Submission
	if err = json.Unmarshal(data, &submission); err != nil {
		return models.Submission{}, fmt.Errorf("%w: %w", ErrReadingSubmission, err)
	}

	base := filepath.Dir(args[0])
	for i, f := range submission.Files {
		if f.Path != "" && !filepath.IsAbs(f.Path) {
			submission.Files[i].Path = filepath.Join(base, f.Path)
		}
	}

	return submission, nil
}
