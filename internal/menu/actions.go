package menu

import (
	"context"
	"errors"

	"stockroom/internal/csvio"
	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/money"
	"stockroom/internal/validate"
)

func (m *Menu) viewProduct(ctx context.Context) error {
	for {
		m.clear()
		m.flushNotice()
		s, err := m.prompt("Please enter the id number of a product you wish to view: ")
		if err != nil {
			return err
		}
		if isQuit(s) {
			return nil
		}
		id, ok := validate.ID(s)
		if !ok {
			quit, err := m.confirm("Please use a number. Press enter to try again or 'q' to quit: ")
			if err != nil || quit {
				return err
			}
			continue
		}

		p, err := m.inv.Lookup(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			applog.Debug(ctx, "menu.view.not_found", map[string]any{"id": id})
			quit, err := m.confirm("The product with the given id number does not exist. " +
				"Press enter if you wish to try again or 'q' to quit: ")
			if err != nil || quit {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		m.clear()
		m.printProduct(p)
		quit, err := m.confirm("\nTo search for another product press enter, " +
			"to quit and go back to main menu enter 'q': ")
		if err != nil || quit {
			return err
		}
	}
}

func (m *Menu) printProduct(p domain.Product) {
	layout := m.opts.DateLayout
	if layout == "" {
		layout = csvio.DefaultDateLayout
	}
	m.printf("Product ID: %d\n", p.ID)
	m.printf("Product name: %s\n", p.Name)
	m.printf("Product quantity: %d\n", p.Quantity)
	m.printf("Product price: %d (%s)\n", p.Price, money.Format(p.Price))
	m.printf("Date updated: %s\n", p.UpdatedAt.Format(layout))
}

func (m *Menu) addProduct(ctx context.Context) error {
	for {
		m.clear()
		name, quit, err := ask(m, "Name of product: ", "Please enter a name.", validate.Name)
		if err != nil || quit {
			return err
		}
		quantity, quit, err := ask(m, "Quantity (in number format): ",
			"Please use numbers. Press enter to try again", validate.Quantity)
		if err != nil || quit {
			return err
		}
		price, quit, err := ask(m, "Price of product in $ (number format): ",
			"Please use numbers. Press enter to try again", validate.WholePrice)
		if err != nil || quit {
			return err
		}

		res, err := m.inv.Add(ctx, name, quantity, price)
		if err != nil {
			return err
		}
		m.clear()
		if res.Created {
			m.printf("Product successfully saved (id %d)\n", res.ID)
		} else {
			m.printf("Product successfully saved (updated id %d)\n", res.ID)
		}
		quit, err = m.confirm("Press enter to add another product or 'q' to quit: ")
		if err != nil || quit {
			return err
		}
	}
}

// ask prompts until parse accepts the input. A rejected value shows retryMsg
// and waits for enter; 'q' at either prompt ends the action.
func ask[T any](m *Menu, label, retryMsg string, parse func(string) (T, bool)) (T, bool, error) {
	var zero T
	for {
		s, err := m.prompt(label)
		if err != nil {
			return zero, false, err
		}
		if isQuit(s) {
			return zero, true, nil
		}
		if v, ok := parse(s); ok {
			return v, false, nil
		}
		quit, err := m.confirm(retryMsg + " ")
		if err != nil || quit {
			return zero, quit, err
		}
		m.clear()
	}
}

func (m *Menu) createBackup(ctx context.Context) error {
	m.clear()
	rep, err := m.inv.Backup(ctx, m.opts.BackupPath)
	if err != nil {
		return err
	}
	m.printf("Backup successfully created: %d products written to %s\n", rep.Rows, rep.Path)
	_, err = m.prompt("Press enter to return to main menu")
	return err
}
