package models

// MaxSyncErrors ограничивает количество сообщений об ошибках,
// возвращаемых в результате синхронизации.
const MaxSyncErrors = 10

// SyncResult представляет итог одного прогона синхронизации каталога
// магазина с маркетплейсом.
type SyncResult struct {
	Success       bool     `json:"success"`
	Marketplace   string   `json:"marketplace,omitempty"`
	SyncedCount   int      `json:"synced_count"`
	ErrorCount    int      `json:"error_count"`
	TotalProducts int      `json:"total_products"`
	// Errors содержит не более MaxSyncErrors первых сообщений,
	// ErrorCount при этом отражает полное число ошибок.
	Errors []string `json:"errors,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// AddError учитывает ошибку по отдельному товару, не прерывая прогон.
func (r *SyncResult) AddError(msg string) {
	r.ErrorCount++
	if len(r.Errors) < MaxSyncErrors {
		r.Errors = append(r.Errors, msg)
	}
}

// Merge объединяет результат прогона по одному маркетплейсу в сводный
// результат. Success сбрасывается, если хотя бы один прогон фатально упал.
func (r *SyncResult) Merge(other *SyncResult) {
	r.SyncedCount += other.SyncedCount
	r.TotalProducts += other.TotalProducts
	for _, msg := range other.Errors {
		if len(r.Errors) < MaxSyncErrors {
			r.Errors = append(r.Errors, msg)
		}
	}
	r.ErrorCount += other.ErrorCount
	if !other.Success {
		r.Success = false
		if r.Error == "" {
			r.Error = other.Error
		}
	}
}
