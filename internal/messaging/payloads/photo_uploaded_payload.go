package payloads

import "time"

// PhotoUploadedPayload описывает событие о загрузке нового фото,
// публикуется сервером в RabbitMQ и обрабатывается воркером.
type PhotoUploadedPayload struct {
	EventID    string    `json:"event_id"`
	PhotoID    uint64    `json:"photo_id"`
	UserID     uint64    `json:"user_id"`
	HashtagID  uint64    `json:"hashtag_id,omitempty"`
	Hashtag    string    `json:"hashtag,omitempty"`
	NewHashtag bool      `json:"new_hashtag"`
	UploadedAt time.Time `json:"uploaded_at"`
}
