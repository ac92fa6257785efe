package userservice

// User модель пользователя из UserService
type User struct {
	ID   int64  `json:"id"`
	Role string `json:"role"` // client, professional, admin
	Name string `json:"name"`
}

// IsProfessional возвращает true, если пользователь оказывает услуги
func (u *User) IsProfessional() bool {
	return u.Role == "professional"
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
