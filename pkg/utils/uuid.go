package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateBatchID identifica uma execução de ingestão; nunca falha
func GenerateBatchID() string {
	id, err := gonanoid.Generate(characters, 10)
	if err != nil {
		return "batch"
	}
	return id
}
