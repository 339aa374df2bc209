// Package menu runs the interactive terminal loop: a main menu of single-key
// actions, each a small sub-loop that re-prompts on bad input and returns to
// the main menu on 'q'. End of input anywhere ends the session.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/services"
)

const QuitKey = "q"

// Inventory is the slice of services.InventoryService the menu drives.
type Inventory interface {
	Lookup(ctx context.Context, id int64) (domain.Product, error)
	Add(ctx context.Context, name string, quantity int, price int64) (domain.UpsertResult, error)
	Backup(ctx context.Context, path string) (services.BackupReport, error)
}

type Options struct {
	BackupPath  string
	DateLayout  string
	ClearScreen bool
}

type Action struct {
	Key   string
	Label string
	Run   func(ctx context.Context) error
}

type Menu struct {
	inv     Inventory
	opts    Options
	in      *bufio.Reader
	out     io.Writer
	clear   func()
	notice  string
	actions []Action
}

func New(inv Inventory, in io.Reader, out io.Writer, opts Options) *Menu {
	m := &Menu{
		inv:   inv,
		opts:  opts,
		in:    bufio.NewReader(in),
		out:   out,
		clear: screenClearer(out, opts.ClearScreen),
	}
	m.actions = []Action{
		{Key: "v", Label: "View the details of a single product", Run: m.viewProduct},
		{Key: "a", Label: "Add a new product", Run: m.addProduct},
		{Key: "b", Label: "Make a backup of the entire contents of the database", Run: m.createBackup},
	}
	return m
}

func (m *Menu) Actions() []Action { return m.actions }

// Run shows the main menu until the user quits or input ends; both return
// nil. Any other error comes from the store or the filesystem and is fatal.
func (m *Menu) Run(ctx context.Context) error {
	err := m.mainLoop(ctx)
	if errors.Is(err, io.EOF) {
		applog.Info(ctx, "menu.eof", nil)
		return nil
	}
	return err
}

func (m *Menu) mainLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.clear()
		m.flushNotice()
		m.printf("Enter '%s' to quit.\n", QuitKey)
		for _, a := range m.actions {
			m.printf("%s) %s\n", a.Key, a.Label)
		}
		choice, err := m.prompt("Action: ")
		if err != nil {
			return err
		}
		choice = strings.ToLower(choice)
		if choice == QuitKey {
			return nil
		}
		a, ok := m.lookup(choice)
		if !ok {
			m.notice = "Your input is invalid. Please try again."
			continue
		}
		applog.Debug(ctx, "menu.select", map[string]any{"key": a.Key})
		if err := a.Run(ctx); err != nil {
			return err
		}
	}
}

func (m *Menu) lookup(key string) (Action, bool) {
	for _, a := range m.actions {
		if a.Key == key {
			return a, true
		}
	}
	return Action{}, false
}

// prompt writes label and returns the next trimmed input line, or io.EOF.
// Lines of any length are returned whole; callers reject what they cannot use.
func (m *Menu) prompt(label string) (string, error) {
	m.printf("%s", label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			m.printf("\n")
			return "", io.EOF
		}
	}
	return strings.TrimSpace(line), nil
}

// confirm prompts and reports whether the user asked to quit.
func (m *Menu) confirm(label string) (quit bool, err error) {
	s, err := m.prompt(label)
	if err != nil {
		return false, err
	}
	return isQuit(s), nil
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) flushNotice() {
	if m.notice != "" {
		m.printf("%s\n", m.notice)
		m.notice = ""
	}
}

func isQuit(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), QuitKey)
}
