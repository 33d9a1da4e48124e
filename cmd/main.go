package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/config"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/database"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/handler"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/logging"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/oracle"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/service"
	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	envFile string

	newLogger = logging.New
)

var rootCmd = &cobra.Command{
	Use:   "students",
	Short: "Student record manager with AI data quality review",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			cfg = config.Load(envFile)
		} else {
			cfg = config.Load()
		}
		var err error
		logger, err = newLogger(cfg.LogLevel)
		return err
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run one data quality review and print the flagged fields",
	RunE:  runReview,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the stored records with the sample dataset",
	RunE:  runReset,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load settings from this .env file (default: .env)")
	rootCmd.AddCommand(serveCmd, reviewCmd, resetCmd)
}

func main() {
	if err := execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute runs the command line and flushes the logger whether or not the
// command failed.
func execute(args []string) error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func openStore(ctx context.Context) (*service.StudentService, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewStudentService(ctx, database.NewSlotStore(db), logger), nil
}

func newOracle(ctx context.Context) (service.Oracle, error) {
	return oracle.NewGeminiOracle(ctx, oracle.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.OracleTimeout,
	}, logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	studentService, err := openStore(ctx)
	if err != nil {
		return err
	}
	reviewOracle, err := newOracle(ctx)
	if err != nil {
		// The API stays usable; only reviews fail.
		logger.Warn("data quality oracle unavailable", zap.Error(err))
		reviewOracle = unavailableOracle{err: err}
	}
	reviewService := service.NewReviewService(studentService, reviewOracle, cfg.OracleTimeout, logger)
	importService := service.NewImportService(studentService, logger)

	r := handler.NewRouter(
		handler.NewStudentHandler(studentService),
		handler.NewReviewHandler(reviewService, logger),
		handler.NewImportHandler(importService, logger),
		handler.NewProgressHandler(reviewService, importService, logger),
	)
	h := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.CORSOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
	h = handlers.CombinedLoggingHandler(zap.NewStdLog(logger).Writer(), h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	studentService, err := openStore(ctx)
	if err != nil {
		return err
	}
	reviewOracle, err := newOracle(ctx)
	if err != nil {
		return err
	}
	reviewService := service.NewReviewService(studentService, reviewOracle, cfg.OracleTimeout, logger)

	students, err := reviewService.Review(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	flagged := 0
	for _, st := range students {
		for _, a := range st.Anomalies {
			if !a.Displayable() {
				continue
			}
			flagged++
			current, _ := st.Value(a.Field)
			fmt.Fprintf(out, "%s\t%s\t%q -> %q\n", st.RegNo, a.Field, current, a.SuggestedFix)
		}
	}
	fmt.Fprintf(out, "%d records reviewed, %d fields flagged\n", len(students), flagged)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	studentService, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	studentService.Reset()
	fmt.Fprintf(cmd.OutOrStdout(), "restored %d sample records\n", len(studentService.List()))
	return nil
}

// unavailableOracle stands in when no oracle could be configured, so the
// record API keeps working and reviews report the configuration error.
type unavailableOracle struct {
	err error
}

func (o unavailableOracle) Review(context.Context, []model.StudentRecord) ([]model.Student, error) {
	return nil, o.err
}
