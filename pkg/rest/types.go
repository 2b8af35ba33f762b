// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Item Строка таблицы ROI
type Item struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	OfferPrice      int64     `json:"offerPrice"`
	GEPrice         int64     `json:"gePrice"`
	CofferValue     int64     `json:"cofferValue"`
	ROI             float64   `json:"roi"`
	Volume          int64     `json:"volume"`
	VolumeEstimated bool      `json:"volumeEstimated"`
	Members         bool      `json:"members"`
	Timestamp       time.Time `json:"timestamp"`
}

// ItemsResponse Объединённое представление снапшотов за день
type ItemsResponse struct {
	Date        string    `json:"date"`
	IsFallback  bool      `json:"isFallback"`
	ItemCount   int       `json:"itemCount"`
	Items       []Item    `json:"items"`
	SourceFiles []string  `json:"sourceFiles"`
	Timestamp   time.Time `json:"timestamp"`
}

// Snapshot Метаданные сохранённого снапшота
type Snapshot struct {
	Pathname   string    `json:"pathname"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int64     `json:"size,omitempty"`
}

// RefreshRequest Запрос на внеочередной запуск пайплайна
type RefreshRequest struct {
	Reason string `json:"reason" validate:"required,max=200"`
}

// RefreshResponse Идентификатор поставленной задачи
type RefreshResponse struct {
	TaskID string `json:"taskId"`
	Queue  string `json:"queue"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
