package nlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

type Logger interface {
	Logf(format string, v ...any)
}

type subsystemLogger struct {
	name string
	sink *Sink
}

func (s *subsystemLogger) Logf(format string, v ...any) {
	s.sink.logf(s.name, format, v...)
}

// Sink fans subsystem loggers into a single destination. With a directory it
// writes one file per subsystem; without, everything goes to stderr.
type Sink struct {
	lock    sync.Mutex
	enabled bool
	dir     string

	fileMapper map[string]*os.File
	logMapper  map[string]*log.Logger
}

func NewSink(dir string, enabled bool) (*Sink, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &Sink{
		enabled:    enabled,
		dir:        dir,
		fileMapper: make(map[string]*os.File),
		logMapper:  make(map[string]*log.Logger),
	}, nil
}

// Subsystem returns the named logger, creating its destination on first use.
func (s *Sink) Subsystem(name string) Logger {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.logMapper[name]; !ok {
		var out io.Writer = os.Stderr
		if s.dir != "" {
			file, err := os.OpenFile(filepath.Join(s.dir, name+".log"), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
			if err == nil {
				s.fileMapper[name] = file
				out = file
			}
		}
		s.logMapper[name] = log.New(out, fmt.Sprintf("[%s]: ", name), log.Ldate|log.Ltime)
	}
	return &subsystemLogger{name, s}
}

func (s *Sink) logf(name, format string, v ...any) {
	s.lock.Lock()
	logger, ok := s.logMapper[name]
	enabled := s.enabled
	s.lock.Unlock()

	if ok && enabled {
		logger.Printf(format, v...)
	}
}

func (s *Sink) EnableLogging()  { s.lock.Lock(); s.enabled = true; s.lock.Unlock() }
func (s *Sink) DisableLogging() { s.lock.Lock(); s.enabled = false; s.lock.Unlock() }

func (s *Sink) CloseAll() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, file := range s.fileMapper {
		file.Sync()
		file.Close()
	}
	clear(s.fileMapper)
	clear(s.logMapper)
}
