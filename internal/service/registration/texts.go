package registration

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"registrationBot/internal/domain/models"
	"registrationBot/internal/verification"
)

// Идентификаторы действий inline-кнопок
const (
	ActionPrefix          = "reg_"
	ActionName            = "reg_name"
	ActionContact         = "reg_contact"
	ActionPassword        = "reg_password"
	ActionPasswordConfirm = "reg_password_confirm"
	ActionComplete        = "reg_complete"
	ActionBack            = "reg_back"
	ActionUseCurrentPhone = "reg_use_current_phone"
)

const (
	textWelcome           = "Здравствуйте! Для продолжения пользования ботом, пожалуйста, зарегистрируйтесь!"
	textFillRemaining     = "Пожалуйста, заполните оставшиеся поля:"
	textWelcomeBack       = "Привет еще раз!"
	textRegistered        = "Привет! Вы успешно зарегистрировались!"
	textAlreadyRegistered = "Вы уже зарегистрированы."
	textBlocked           = "❌ Ваш аккаунт заблокирован!\nОбратитесь в поддержку для разблокировки."
	textAttemptsExhausted = "❌ Вы превысили максимальное количество попыток ввода кода!\nВаш аккаунт заблокирован. Обратитесь в поддержку."
	textCodeExpired       = "⌛ Срок действия кода подтверждения истек.\nНажмите «Готово», чтобы получить новый код."
	textUnavailable       = "Это действие сейчас недоступно."
	textTryAgain          = "Произошла ошибка. Попробуйте еще раз."

	textNameGuard     = "❌ Сначала укажите имя!"
	textContactGuard  = "❌ Сначала укажите контактные данные!"
	textPasswordGuard = "❌ Сначала введите пароль!"
	textNotFilled     = "❌ Сначала заполните все поля!"

	textPasswordsMismatchAlert = "Пароли не совпадают!"
	textDeliveryFailed         = "Ошибка отправки кода подтверждения. Попробуйте позже."

	textShareContact       = "Нажмите на кнопку ниже, чтобы отправить свой номер телефона:"
	textShareContactButton = "Отправить номер телефона"

	textEnterCode = "Пожалуйста, введите полученный 6-значный код:"
	textCodeEmail = "Мы отправили код подтверждения на ваш email."
	textCodeSMS   = "Мы отправили код подтверждения в SMS."

	textNameEmpty        = "❌ Имя не может быть пустым!\n\nПожалуйста, напишите, как мы можем к вам обращаться."
	textPasswordMismatch = "❌ Пароли не совпадают!\n\nПожалуйста, введите пароль повторно."
	textForeignContact   = "❌ Можно отправить только свой номер телефона!\n\nПожалуйста, введите номер телефона или email."

	buttonBack            = "« Назад"
	buttonUseCurrentPhone = "Использовать текущий номер"
	buttonComplete        = "Готово"
	notSetMasculine       = "Не указан"
)

type prompt struct {
	first     string
	overwrite string
}

var prompts = map[models.Field]prompt{
	models.FieldName: {
		first:     "Пожалуйста, напишите, как мы можем к вам обращаться?",
		overwrite: "Хотите изменить имя? Введите новое значение:",
	},
	models.FieldContact: {
		first:     "Пожалуйста, укажите ваш контактный номер или email:",
		overwrite: "Хотите изменить контактные данные? Введите новое значение:",
	},
	models.FieldPassword: {
		first:     "Пожалуйста, введите пароль:",
		overwrite: "Хотите изменить пароль? Введите новое значение:",
	},
	models.FieldPasswordConfirm: {
		first:     "Пожалуйста, подтвердите пароль:",
		overwrite: "Хотите изменить подтверждение пароля? Введите новое значение:",
	},
}

var duplicateTexts = map[models.Field]string{
	models.FieldName:            "❌ Вы ввели то же самое имя!\n\nПожалуйста, введите другое значение или вернитесь назад.",
	models.FieldContact:         "❌ Вы ввели те же контактные данные!\n\nПожалуйста, введите другое значение или вернитесь назад.",
	models.FieldPassword:        "❌ Вы ввели тот же пароль!\n\nПожалуйста, введите другой пароль или вернитесь назад.",
	models.FieldPasswordConfirm: "❌ Вы ввели то же подтверждение пароля!\n\nПожалуйста, введите другое значение или вернитесь назад.",
}

func guardText(missing models.Field) string {
	switch missing {
	case models.FieldName:
		return textNameGuard
	case models.FieldContact:
		return textContactGuard
	}
	return textPasswordGuard
}

func contactErrorText(err error) string {
	return "❌ Введенные данные некорректны!\n\n" + err.Error() + "\n\n" +
		"Пожалуйста, введите:\n" +
		"- Корректный email (например: example@email.com)\n" +
		"- Или номер телефона в формате: +380xxxxxxxxx, 380xxxxxxxxx, 0xxxxxxxxx"
}

func sharedPhoneErrorText(err error) string {
	return fmt.Sprintf("❌ Ваш номер не соответствует требованиям:\n%v\n\nПожалуйста, введите другой номер телефона или email:", err)
}

func weakPasswordText(err error) string {
	return "❌ Пароль слишком слабый!\n\n" + err.Error() + "\n\n" +
		"Требования к паролю:\n" +
		"- Минимум 8 символов\n" +
		"- Хотя бы одна заглавная буква\n" +
		"- Хотя бы одна строчная буква\n" +
		"- Хотя бы одна цифра\n" +
		"- Хотя бы один специальный символ"
}

func wrongCodeText(remaining int) string {
	return fmt.Sprintf("❌ Неверный код подтверждения!\n\nОсталось попыток: %d\nПожалуйста, проверьте код и попробуйте снова.", remaining)
}

func codeSentText(channel verification.Channel) string {
	sent := textCodeSMS
	if channel == verification.ChannelEmail {
		sent = textCodeEmail
	}
	return sent + "\n\n" + textEnterCode
}

func menuHeader(conv *models.Conversation) string {
	if conv.AnyFilled() {
		return textFillRemaining
	}
	return textWelcome
}

func mask(secret string) string {
	return strings.Repeat("●", utf8.RuneCountInString(secret))
}

// menu строит клавиатуру регистрации; кнопка "Готово" появляется только
// когда заполнены все четыре поля.
func menu(conv *models.Conversation) [][]Button {
	name := "Имя"
	if conv.Has(models.FieldName) {
		name += ": " + conv.Name
	}

	contact := "Почта / Номер"
	if conv.Has(models.FieldContact) {
		contact += ": " + conv.Contact
	}

	password := "Пароль: " + notSetMasculine
	if conv.Has(models.FieldPassword) {
		password = "Пароль: " + mask(conv.Password)
	}

	confirm := "Подтвердите пароль: " + notSetMasculine
	if conv.Has(models.FieldPasswordConfirm) {
		confirm = "Подтвердите пароль: " + mask(conv.PasswordConfirm)
	}

	rows := [][]Button{
		{{Text: name, Action: ActionName}},
		{{Text: contact, Action: ActionContact}},
		{{Text: password, Action: ActionPassword}},
		{{Text: confirm, Action: ActionPasswordConfirm}},
	}

	if conv.Filled() {
		rows = append(rows, []Button{{Text: buttonComplete, Action: ActionComplete}})
	}

	return rows
}

func editKeyboard(f models.Field) [][]Button {
	back := []Button{{Text: buttonBack, Action: ActionBack}}

	if f == models.FieldContact {
		return [][]Button{
			{{Text: buttonUseCurrentPhone, Action: ActionUseCurrentPhone}},
			back,
		}
	}

	return [][]Button{back}
}
