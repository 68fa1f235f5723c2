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

	"github.com/gin-gonic/gin"
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/CageChen/fsentity/internal/config"
	"github.com/CageChen/fsentity/internal/entity"
	"github.com/CageChen/fsentity/internal/events"
	mfs "github.com/CageChen/fsentity/internal/fs"
	"github.com/CageChen/fsentity/internal/handler"
	"github.com/CageChen/fsentity/internal/logger"
	"github.com/CageChen/fsentity/internal/phpsrc"
	"github.com/CageChen/fsentity/internal/value"
)

const (
	formatAuto   = "auto"
	formatSerial = "serial"
	formatSource = "source"
)

// state is resolved once in Before and shared by every command.
type state struct {
	cfg    *config.Config
	log    logger.Logger
	fsys   mfs.FileSystem
	format string
}

func (s *state) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Command line flags override config file (only if explicitly set)
	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("git-ref") {
		cfg.GitRef = c.String("git-ref")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	switch f := c.String("format"); f {
	case formatAuto, formatSerial, formatSource:
		s.format = f
	default:
		return errors.New(l10n.F("unknown format %q", f))
	}

	s.cfg = cfg
	s.log = logger.New(logger.ParseLevel(cfg.LogLevel), c.App.ErrWriter)
	if err := cfg.LoadWarning(); err != nil {
		s.log.Warn("Using default configuration: %v", err)
	}
	if cfg.GitRef != "" {
		s.fsys = mfs.NewGitFS(cfg.Root, cfg.GitRef)
	} else {
		s.fsys = mfs.NewLocalFS(cfg.Root)
	}
	return nil
}

func (s *state) options() []entity.Option {
	return []entity.Option{
		entity.WithFileSystem(s.fsys),
		entity.WithFileMode(s.cfg.FilePerm()),
		entity.WithLogger(s.log.WithComponent("entity")),
	}
}

func (s *state) file(p string) *entity.File {
	source := s.format == formatSource || (s.format == formatAuto && s.cfg.IsSourceFile(p))
	if source {
		return entity.NewSource(p, s.options()...)
	}
	return entity.New(p, s.options()...)
}

func args(c *cli.Context, names ...string) ([]string, error) {
	if c.NArg() != len(names) {
		return nil, errors.New(l10n.F("%s expects %d argument(s), got %d", c.Command.Name, len(names), c.NArg()))
	}
	return c.Args().Slice(), nil
}

func printValue(c *cli.Context, v value.Value, php bool) error {
	if php {
		_, err := fmt.Fprintln(c.App.Writer, phpsrc.Export(v))
		return err
	}
	data, err := value.Encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}

func (s *state) get(c *cli.Context) error {
	a, err := args(c, "PATH")
	if err != nil {
		return err
	}
	f := s.file(a[0])
	if err := f.Load(); err != nil {
		return err
	}
	return printValue(c, f.Get(), c.Bool("php"))
}

func (s *state) set(c *cli.Context) error {
	a, err := args(c, "PATH", "VALUE")
	if err != nil {
		return err
	}
	// Parse the argument the way a serial file would be: JSON when it is, a string otherwise
	v, err := entity.SerialCodec{}.Decode([]byte(a[1]))
	if err != nil {
		return err
	}
	f := s.file(a[0])
	if err := f.Set(v).Save(); err != nil {
		return err
	}
	s.log.Info("Saved %s (new: %v)", f.Path(), f.WasNew())
	return nil
}

func (s *state) rm(c *cli.Context) error {
	a, err := args(c, "PATH")
	if err != nil {
		return err
	}
	f := s.file(a[0])
	if err := f.Delete(); err != nil {
		return err
	}
	s.log.Info("Deleted %s", f.Path())
	return nil
}

func (s *state) eval(c *cli.Context) error {
	a, err := args(c, "PATH")
	if err != nil {
		return err
	}
	v, err := s.file(a[0]).Eval()
	if err != nil {
		return err
	}
	return printValue(c, v, false)
}

func (s *state) ls(c *cli.Context) error {
	p := "."
	if c.NArg() > 1 {
		return errors.New(l10n.F("%s expects %d argument(s), got %d", c.Command.Name, 1, c.NArg()))
	}
	if c.NArg() == 1 {
		p = c.Args().First()
	}
	order, ok := entity.ParseOrder(c.String("order"))
	if !ok {
		return errors.New(l10n.F("unknown order %q", c.String("order")))
	}

	d, err := entity.NewDir(p, s.options()...)
	if err != nil {
		return err
	}
	var list *entity.List
	if c.Bool("recursive") {
		list, err = d.ListRecursive()
	} else {
		list, err = d.List(order)
	}
	if err != nil {
		return err
	}
	for _, path := range list.Paths() {
		if _, err := fmt.Fprintln(c.App.Writer, path); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) mkdir(c *cli.Context) error {
	a, err := args(c, "PATH")
	if err != nil {
		return err
	}
	mode := s.cfg.DirPerm()
	if c.IsSet("mode") {
		if mode, err = config.ParseMode(c.String("mode")); err != nil {
			return err
		}
	}
	d, err := entity.NewDir(a[0], s.options()...)
	if err != nil {
		return err
	}
	if err := d.Make(mode); err != nil {
		return err
	}
	s.log.Info("Made directory %s", d.Path())
	return nil
}

func (s *state) serve(c *cli.Context) error {
	if c.IsSet("port") {
		s.cfg.Port = c.Int("port")
	}
	log := logger.NewConsole(logger.ParseLevel(s.cfg.LogLevel))

	log.Info("fsentity %s", version)
	log.Info("Config file: %s", s.cfg.GetConfigFilePath())
	if g, ok := s.fsys.(*mfs.GitFS); ok {
		log.Info("Serving %s (git ref: %s, read-only)", s.cfg.Root, g.Ref())
	} else {
		log.Info("Serving %s", s.cfg.Root)
	}

	gin.SetMode(gin.ReleaseMode)
	ws := handler.NewWorkspace(s.cfg, s.fsys, log, events.NewBus())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler.NewRouter(ws),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting at: http://localhost:%d", s.cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Warn("Interrupted, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
