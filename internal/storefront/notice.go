package storefront

import "fmt"

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is a transient message shown to the player.
type Notice struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

func missingFieldsNotice() Notice {
	return Notice{
		Title:       "⚠️ Заполните все поля",
		Description: "Пожалуйста, выберите сервер, введите ID игрока и выберите количество валюты",
		Variant:     VariantDestructive,
	}
}

func sentNotice() Notice {
	return Notice{
		Title:       "✅ Данные отправлены боту!",
		Description: "Ожидайте дальнейших инструкций для оплаты",
		Variant:     VariantDefault,
	}
}

func localNotice(server, playerID, price string) Notice {
	return Notice{
		Title:       "✅ Данные отправлены!",
		Description: fmt.Sprintf("Сервер: %s, ID: %s, Сумма: %s", server, playerID, price),
		Variant:     VariantDefault,
	}
}
