package dto

// Формы приходят обычным application/x-www-form-urlencoded POST-ом из HTML.
// Валидация с человекочитаемыми сообщениями делается в хэндлерах, поэтому
// binding-тегов здесь нет.

type RegisterForm struct {
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Remember string `form:"remember"`
}

// RememberMe интерпретирует чекбокс: любое непустое значение считается
// включённым.
func (f LoginForm) RememberMe() bool {
	return f.Remember != ""
}
