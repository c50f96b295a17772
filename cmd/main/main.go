package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/common"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/config"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/log"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/models/scene"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/services"
)

const progName = "mobilenerf-samples"

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type cliOptions struct {
	request common.DownloadRequest
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", progName, err)
		return exitUsage
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", progName, err)
		return exitFailure
	}

	logger, err := log.NewLogger(true, opts.verbose, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: failed to create logger: %v\n", progName, err)
		return exitFailure
	}
	defer logger.Sync()

	req := &opts.request
	jobs, err := services.Select(req.DownloadPath, req.Name, req.All)
	if err != nil {
		logger.Errorf("Invalid selection: %v", err)
		return exitUsage
	}

	ctx := context.Background()
	if req.Check {
		return check(ctx, cfg, logger, jobs)
	}

	if req.WantsAll() {
		logger.Info("Downloading all MobileNeRF sample scenes.")
	} else {
		logger.Infof("Downloading %s MobileNeRF sample scene.", req.Name)
	}

	recorders, closeRecorders := setupRecorders(ctx, cfg, logger)
	defer closeRecorders()

	transport := services.NewHTTPTransport(cfg.HTTPTimeout)
	fetcher := services.NewSceneFetcher(transport, cfg.BaseURL, logger, recorders...)

	for _, job := range jobs {
		if err := fetcher.FetchJob(ctx, job); err != nil {
			logger.Errorf("Download failed: %v", err)
			return exitFailure
		}
	}

	stats := fetcher.Stats()
	logger.Infow("Finished",
		"downloaded", stats.Downloaded,
		"skipped", stats.Skipped,
		"files", stats.Files,
	)
	return exitOK
}

// parseArgs parses the command line into validated options. Usage goes to out.
func parseArgs(args []string, out io.Writer) (*cliOptions, error) {
	var opts cliOptions

	fs := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&opts.request.Name, "name", "n", "", "The name of a specific sample scene.")
	fs.BoolVarP(&opts.request.All, "all", "a", false, "Download all the sample scenes. Ignores --name if this is used.")
	fs.BoolVarP(&opts.request.Check, "check", "c", false, "Check already downloaded scenes for missing files instead of downloading.")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every downloaded file.")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: %s [flags] downloadPath\n\n", progName)
		fmt.Fprintln(out, "A helper to download pre-trained MobileNeRF sample scenes.")
		fmt.Fprintf(out, "\nScenes:\n  360:            %v\n  forward-facing: %v\n\nFlags:\n",
			scene.Category360.Scenes(), scene.CategoryForwardFacing.Scenes())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fs.Usage()
		}
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.request.DownloadPath = fs.Arg(0)
	default:
		fs.Usage()
		return nil, fmt.Errorf("unrecognized arguments: %v", fs.Args()[1:])
	}

	if err := common.ValidateRequest(&opts.request); err != nil {
		fs.Usage()
		return nil, err
	}
	return &opts, nil
}

// check reports the state of the selected scenes. With a MongoDB URI configured, the recorded
// download of each scene is reported as well.
func check(ctx context.Context, cfg *config.Config, logger *log.Logger, jobs []services.Job) int {
	var history services.RecordLookup
	if cfg.MongoURI != "" {
		client, err := connectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logger.Errorf("Download history unavailable: %v", err)
		} else {
			defer func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.Errorf("Error disconnecting from MongoDB: %v", err)
				}
			}()
			history = scene.NewSceneManager(client, logger)
		}
	}

	return runCheck(ctx, services.NewSceneChecker(logger, history), logger, jobs)
}

func runCheck(ctx context.Context, checker *services.SceneChecker, logger *log.Logger, jobs []services.Job) int {
	incomplete := 0
	for _, job := range jobs {
		results, err := checker.CheckJob(ctx, job)
		if err != nil {
			logger.Errorf("Check failed: %v", err)
			return exitFailure
		}
		for _, result := range results {
			if result.Status != services.SceneStatusComplete {
				incomplete++
			}
		}
	}

	if incomplete > 0 {
		logger.Warnf("%d scene(s) are absent or incomplete", incomplete)
		return exitFailure
	}
	logger.Info("All selected scenes are complete")
	return exitOK
}

// setupRecorders connects the optional download history and scene notifications.
// A recorder that cannot be set up is logged and left out.
func setupRecorders(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]services.SceneRecorder, func()) {
	var recorders []services.SceneRecorder
	var closers []func()

	if cfg.MongoURI != "" {
		client, err := connectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logger.Errorf("Download history disabled: %v", err)
		} else {
			recorders = append(recorders, scene.NewSceneManager(client, logger))
			closers = append(closers, func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.Errorf("Error disconnecting from MongoDB: %v", err)
				}
			})
		}
	}

	if cfg.AMQPURL != "" {
		mqService, err := services.NewAMPQService(cfg.AMQPURL, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Errorf("Scene notifications disabled: %v", err)
		} else {
			recorders = append(recorders, mqService)
			closers = append(closers, mqService.Shutdown)
		}
	}

	return recorders, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error creating MongoDB client: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("error reaching MongoDB: %w", err)
	}
	return client, nil
}
