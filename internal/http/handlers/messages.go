package handlers

// Localized user-facing messages per failure kind. The frontend renders
// these verbatim; the detail string from the error itself is logged, not
// shown.
var messages = map[string]map[string]string{
	"empty_input": {
		"en": "Please provide an idea or a reference image.",
		"id": "Mohon isi ide atau tambahkan gambar referensi.",
	},
	"busy": {
		"en": "A render is already in progress. Wait for it to finish.",
		"id": "Proses render sedang berjalan. Tunggu hingga selesai.",
	},
	"not_found": {
		"en": "That history entry does not exist.",
		"id": "Riwayat tersebut tidak ditemukan.",
	},
	"no_active_result": {
		"en": "There is no result yet. Generate an image first.",
		"id": "Belum ada hasil. Buat gambar terlebih dahulu.",
	},
	"transport": {
		"en": "The render service could not be reached. Try again.",
		"id": "Layanan render tidak dapat dihubungi. Coba lagi.",
	},
	"empty_response": {
		"en": "The model returned no image. This often means quota exhaustion or a content policy block; try a different prompt.",
		"id": "Model tidak mengembalikan gambar. Biasanya karena kuota habis atau diblokir kebijakan konten; coba prompt lain.",
	},
	"internal": {
		"en": "An unexpected error occurred during the render process.",
		"id": "Terjadi kesalahan tak terduga saat proses render.",
	},
}

func messageFor(kind, locale string) string {
	byLocale, ok := messages[kind]
	if !ok {
		byLocale = messages["internal"]
	}
	if msg, ok := byLocale[locale]; ok {
		return msg
	}
	return byLocale["en"]
}
