package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/moffa90/go-romtool/board"
	"github.com/moffa90/go-romtool/console"
	"github.com/moffa90/go-romtool/internal/config"
	"github.com/moffa90/go-romtool/internal/logging"
	"github.com/moffa90/go-romtool/rom"
	"github.com/moffa90/go-romtool/romfile"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the command console on a serial port or stdio.",
	Long: `Runs the single-letter command console:

  R  read the chip into the buffer      D  dump the chip
  B  dump the buffer                    F  fill the buffer from hex lines
  P  program the buffer into the chip   C  checksum the buffer
  V  print the version`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "serial port (overrides the config file)")
	serveCmd.Flags().Int("baud", 0, "baud rate (overrides the config file)")
	serveCmd.Flags().Bool("stdio", false, "use stdin/stdout instead of a serial port")
	serveCmd.Flags().Bool("sim", false, "use a simulated chip instead of GPIO")
	serveCmd.Flags().String("image", "", "image preloaded into the simulated chip")
	rootCmd.AddCommand(serveCmd)
}

// stdio joins stdin and stdout into one stream.
type stdio struct {
	io.Reader
	io.Writer
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg, os.Stderr)
	if err != nil {
		return err
	}
	logger = logger.With("chip", chipName)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, closeChip, err := setupChip(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer closeChip()

	var rw io.ReadWriter
	if getFlag(cmd, "stdio") {
		rw = stdio{Reader: cmd.InOrStdin(), Writer: cmd.OutOrStdout()}
	} else {
		port, err := serial.Open(cfg.Serial.Port, &serial.Mode{
			BaudRate: cfg.Serial.Baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		})
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", cfg.Serial.Port, err)
		}
		defer port.Close()
		// Closing the port unblocks the pending read on shutdown.
		go func() {
			<-ctx.Done()
			port.Close()
		}()
		rw = port
		logger.Info("serving", "port", cfg.Serial.Port, "baud", cfg.Serial.Baud)
	}

	err = session.Run(ctx, rw)
	if ctx.Err() != nil {
		logger.Info("shutting down")
		return nil
	}
	return err
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("port") {
		port, err := cmd.Flags().GetString("port")
		if err != nil {
			return err
		}
		cfg.Serial.Port = port
	}
	if cmd.Flags().Changed("baud") {
		baud, err := cmd.Flags().GetInt("baud")
		if err != nil {
			return err
		}
		cfg.Serial.Baud = baud
	}
	return cfg.Validate()
}

// setupChip builds the console session on real or simulated hardware. The
// returned func releases the hardware.
func setupChip(cmd *cobra.Command, cfg *config.Config, logger *logging.Logger) (*console.Session, func(), error) {
	bulk := []rom.Option{
		rom.WithLogger(logger),
		rom.WithProgressCallback(progressLogger(logger)),
	}
	chipOpts := []rom.Option{rom.WithLogger(logger)}

	if getFlag(cmd, "sim") {
		var image []byte
		path, err := cmd.Flags().GetString("image")
		if err != nil {
			return nil, nil, err
		}
		if path != "" {
			if image, err = romfile.Load(path, chipSize); err != nil {
				return nil, nil, err
			}
		}
		reader, writer := simulateChip(image, chipOpts...)
		logger.Info("using simulated chip")
		return newSession(reader, writer, nil, nil, logger, bulk), func() {}, nil
	}

	b, err := board.Open(cfg.Pins)
	if err != nil {
		return nil, nil, err
	}
	return boardSession(b, logger, chipOpts, bulk)
}

// boardSession builds the session on b. b is halted if the chip cannot be
// set up; otherwise the returned func halts it.
func boardSession(b *board.Board, logger *logging.Logger, chipOpts, bulk []rom.Option) (*console.Session, func(), error) {
	release := func() {
		if err := b.Halt(); err != nil {
			logger.Error("failed to release pins", "error", err)
		}
	}

	reader, writer, err := openChip(b, chipOpts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	green, blue := b.Indicators()
	return newSession(reader, writer, green, blue, logger, bulk), release, nil
}

func newSession(reader rom.Reader, writer rom.Writer, green, blue rom.Line, logger *logging.Logger, bulk []rom.Option) *console.Session {
	opts := []console.Option{
		console.WithLogger(logger),
		console.WithIndicators(green, blue),
		console.WithBulkOptions(bulk...),
	}
	if writer != nil {
		opts = append(opts, console.WithProgrammer(writer))
	}
	return console.New(reader, opts...)
}

// progressLogger reports bulk transfer progress at debug level.
func progressLogger(logger *logging.Logger) rom.ProgressCallback {
	return func(p rom.Progress) {
		logger.Debug(p.Phase,
			"done", p.Done,
			"total", p.Total,
			"failed", p.Failed,
			"percent", fmt.Sprintf("%.1f", p.Percentage),
			"elapsed", p.ElapsedTime,
		)
	}
}
