package models

import "time"

// Store представляет магазин продавца с привязанными учетными данными
// маркетплейсов и телеграм-бота. Учетные данные хранятся как есть и
// передаются в клиенты маркетплейсов без преобразований.
type Store struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	BotToken     string    `json:"bot_token,omitempty"`
	WBAPIToken   string    `json:"wb_api_token,omitempty"`
	OzonClientID string    `json:"ozon_client_id,omitempty"`
	OzonAPIKey   string    `json:"ozon_api_key,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasWildberries сообщает, настроен ли у магазина доступ к Wildberries.
func (s *Store) HasWildberries() bool {
	return s.WBAPIToken != ""
}

// HasOzon сообщает, настроен ли у магазина доступ к Ozon.
func (s *Store) HasOzon() bool {
	return s.OzonClientID != "" && s.OzonAPIKey != ""
}
