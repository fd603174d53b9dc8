// Package menu drives a storefront.Form from terminal prompts.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nivanov045/gamestore/cmd/storefront-cli/prompt"
	"github.com/nivanov045/gamestore/internal/storefront"
)

type action int

const (
	actionServer action = iota
	actionPlayer
	actionBundle
	actionPay
	actionQuit
)

// Run mounts the form and loops over the menu until the user quits or
// interrupts a prompt.
func Run(ctx context.Context, f *storefront.Form, d prompt.Driver) error {
	f.Mount()
	for {
		labels, actions := entries(f)
		idx, err := d.Select(ctx, prompt.SelectConfig{
			Message: summary(f),
			Options: labels,
		})
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		switch actions[idx] {
		case actionServer:
			err = chooseServer(ctx, f, d)
		case actionPlayer:
			err = enterPlayerID(ctx, f, d)
		case actionBundle:
			err = chooseBundle(ctx, f, d)
		case actionPay:
			err = pay(ctx, f, d)
		case actionQuit:
			return nil
		}
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// entries lists the menu; paying is offered only for a complete draft.
func entries(f *storefront.Form) ([]string, []action) {
	labels := []string{"Выбрать сервер", "Ввести ID игрока", "Выбрать количество валюты"}
	actions := []action{actionServer, actionPlayer, actionBundle}
	if f.CanSubmit() {
		price, _ := f.CurrentPrice()
		labels = append(labels, "Оплатить "+f.Catalog().FormatPrice(price))
		actions = append(actions, actionPay)
	}
	labels = append(labels, "Выйти")
	actions = append(actions, actionQuit)
	return labels, actions
}

func summary(f *storefront.Form) string {
	draft := f.Draft()
	parts := []string{
		"Сервер: " + orDash(draft.Server),
		"ID: " + orDash(draft.PlayerID),
		"Сумма: " + orDash(draft.Amount),
	}
	if price, ok := f.CurrentPrice(); ok {
		parts = append(parts, "Итого к оплате: "+f.Catalog().FormatPrice(price))
	}
	return strings.Join(parts, " | ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func chooseServer(ctx context.Context, f *storefront.Form, d prompt.Driver) error {
	servers := f.Catalog().Servers()
	idx, err := d.Select(ctx, prompt.SelectConfig{
		Message:      "Выберите сервер",
		Options:      servers,
		DefaultIndex: indexOf(servers, f.Draft().Server),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(servers) {
		return nil
	}
	return f.SelectServer(servers[idx])
}

func enterPlayerID(ctx context.Context, f *storefront.Form, d prompt.Driver) error {
	raw, err := d.Input(ctx, prompt.InputConfig{
		Message: "Введите ваш ID",
		Default: f.Draft().PlayerID,
	})
	if err != nil {
		return err
	}
	f.SetPlayerID(raw)
	return nil
}

func chooseBundle(ctx context.Context, f *storefront.Form, d prompt.Driver) error {
	cat := f.Catalog()
	bundles := cat.Bundles()
	labels := make([]string, 0, len(bundles))
	current := -1
	for i, b := range bundles {
		labels = append(labels, fmt.Sprintf("%s (%s) за %s", b.Code, b.Amount, cat.FormatPrice(b.Price)))
		if b.Code == f.Draft().Amount {
			current = i
		}
	}
	idx, err := d.Select(ctx, prompt.SelectConfig{
		Message:      "Выберите количество валюты",
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(bundles) {
		return nil
	}
	return f.SelectBundle(bundles[idx].Code)
}

func pay(ctx context.Context, f *storefront.Form, d prompt.Driver) error {
	notice, err := f.Submit()
	var missing *storefront.MissingFieldsError
	if err != nil && !errors.As(err, &missing) {
		return err
	}
	return d.Info(ctx, notice.Title+"\n"+notice.Description)
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
