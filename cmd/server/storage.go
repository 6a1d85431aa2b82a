package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/config"
	"github.com/Nixie-Tech-LLC/salawat/internal/storage"
)

const uploadsURL = "/uploads"

// InitStorage selects and returns the configured storage backend
func InitStorage(cfg *config.Config) storage.Storage {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("using DigitalOcean Spaces storage")
		return spacesStorage
	}

	log.Info().Str("dir", cfg.UploadsPath).Msg("using local file storage")
	return storage.NewLocalStorage(cfg.UploadsPath, uploadsURL)
}
