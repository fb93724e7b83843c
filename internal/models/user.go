package models

// UserRole - роль пользователя в системе
type UserRole string

const (
	RoleRegulator    UserRole = "REGULATOR"
	RoleFleetManager UserRole = "FLEET_MANAGER"
)

// User представляет учетную запись диспетчера или начальника автопарка.
// Password никогда не сериализуется в ответах API: после аутентификации
// поле очищается методом Sanitized.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	Password string   `json:"-"`
}

// Sanitized возвращает копию пользователя без пароля
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
