package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/moffa90/go-romtool/protocol"
	"github.com/moffa90/go-romtool/rom"
	"periph.io/x/conn/v3/gpio"
)

// Prompt is printed before every command.
const Prompt = ">"

// Session is one console attached to one chip. It owns the memory image.
//
// Session is not safe for concurrent use.
type Session struct {
	dev    rom.Reader
	buffer []byte
	config Config
}

// New creates a session for dev with an image of dev.Size() bytes.
func New(dev rom.Reader, opts ...Option) *Session {
	if dev == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		dev:    dev,
		buffer: make([]byte, dev.Size()),
		config: cfg,
	}
}

// Buffer returns the memory image. It stays valid for the session's life.
func (s *Session) Buffer() []byte {
	return s.buffer
}

// Run prints the banner, then reads and executes commands from rw until
// the input ends or ctx is done. Command failures are reported on rw and do
// not end the loop; only transport errors are returned.
func (s *Session) Run(ctx context.Context, rw io.ReadWriter) error {
	in := bufio.NewReader(rw)
	out := &writer{w: rw}

	out.printf("%s\n", s.config.Banner)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		out.printf("%s", Prompt)
		if out.err != nil {
			return out.err
		}

		line, err := in.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if err := s.Execute(line[0], in, out); err != nil {
			return err
		}
	}
}

// Execute runs a single command. in supplies the hex lines of the F
// command. Only errors writing to out are returned.
func (s *Session) Execute(cmd byte, in io.ByteReader, out io.Writer) error {
	w, ok := out.(*writer)
	if !ok {
		w = &writer{w: out}
	}

	switch toUpper(cmd) {
	case 'D':
		w.printf("Dump\n")
		s.indicate(s.config.Green, func() {
			s.report(w, "dump", rom.Dump(w, s.dev, 0, s.size()))
		})

	case 'R':
		w.printf("Read\n")
		s.indicate(s.config.Green, func() {
			s.report(w, "read", rom.Copy(s.dev, s.buffer, 0, s.size(), s.bulkOptions()...))
		})

	case 'B':
		w.printf("Buffer\n")
		s.indicate(s.config.Green, func() {
			s.report(w, "dump buffer", protocol.Dump(w, s.buffer, 0, s.size()))
		})

	case 'V':
		w.printf("Version\n")
		w.printf("%s\n", s.config.Banner)

	case 'P':
		w.printf("Program\n")
		if s.config.Programmer == nil {
			w.printf("Program not supported by %v\n", s.dev)
			break
		}
		s.indicate(s.config.Blue, func() {
			n, err := rom.Program(s.config.Programmer, s.buffer, 0, s.size(), s.bulkOptions()...)
			var perr *rom.ProgramError
			if errors.As(err, &perr) {
				for _, f := range perr.Failures {
					w.printf("%v\n", f)
				}
			} else {
				s.report(w, "program", err)
			}
			w.printf("Programmed 0x%x (dec %d) bytes into device\n", n, n)
		})

	case 'F':
		w.printf("File\n")
		s.indicate(s.config.Green, func() {
			n, err := protocol.Load(in, s.buffer, 0, s.size())
			if err != nil {
				w.printf("%v\n", err)
				s.logError("load failed", "error", err, "bytes", n)
			}
			w.printf("Loaded 0x%x (dec %d) bytes into buffer\n", n, n)
		})

	case 'C':
		w.printf("CRC\n")
		crc := protocol.Checksum(s.buffer)
		w.printf("CRC is : 0x%x (dec %d)\n", crc, crc)

	case '\n', '\r':
		// blank line

	default:
		w.printf("unknown command %c\n", cmd)
	}

	return w.err
}

func (s *Session) size() uint32 {
	return uint32(len(s.buffer))
}

// indicate lights led while f runs.
func (s *Session) indicate(led rom.Line, f func()) {
	if led != nil {
		if err := led.Out(gpio.High); err != nil {
			s.logError("indicator", "error", err)
		}
		defer func() {
			if err := led.Out(gpio.Low); err != nil {
				s.logError("indicator", "error", err)
			}
		}()
	}
	f()
}

// report prints and logs a failed operation.
func (s *Session) report(w *writer, op string, err error) {
	if err == nil {
		return
	}
	w.printf("%s failed: %v\n", op, err)
	s.logError(op+" failed", "error", err)
}

func (s *Session) bulkOptions() []rom.Option {
	opts := append([]rom.Option{}, s.config.BulkOptions...)
	if s.config.Logger != nil {
		opts = append(opts, rom.WithLogger(s.config.Logger))
	}
	return opts
}

// logError logs an error message if a logger is configured.
func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}

func toUpper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - ('a' - 'A')
	}
	return ch
}

// writer remembers the first write error so a command can print freely
// and check once.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.err = err
	return n, err
}

func (w *writer) printf(format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
