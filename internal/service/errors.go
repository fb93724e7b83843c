package service

import "errors"

// Сентинельные ошибки сервисного слоя. Хэндлеры сопоставляют их с
// HTTP-статусами через errors.Is.
var (
	// ErrInvalidCredentials - пара email/пароль не найдена в хранилище
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionNotFound - токен сессии отсутствует или истек
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidStatus - значение вне перечисления статусов
	ErrInvalidStatus = errors.New("invalid status")

	// ErrIncidentNotPending - назначение возможно только на инцидент в статусе PENDING
	ErrIncidentNotPending = errors.New("incident is not pending")

	// ErrAmbulanceNotAvailable - назначить можно только машину в статусе AVAILABLE
	ErrAmbulanceNotAvailable = errors.New("ambulance is not available")
)
