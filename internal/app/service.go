package app

import (
	"shortsmith/internal/asr"
	"shortsmith/internal/llm"
	"shortsmith/internal/storage"
	"shortsmith/pkg/config"
)

type Service struct {
	cfg         *config.Config
	llm         *llm.Adapter
	transcriber *asr.Transcriber
	storage     storage.ArtifactStore
}

type ServiceOptions struct {
	Config      *config.Config
	LLM         *llm.Adapter
	Transcriber *asr.Transcriber
	Storage     storage.ArtifactStore
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:         opts.Config,
		llm:         opts.LLM,
		transcriber: opts.Transcriber,
		storage:     opts.Storage,
	}
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) LLM() *llm.Adapter {
	return s.llm
}

func (s *Service) Transcriber() *asr.Transcriber {
	return s.transcriber
}

func (s *Service) Storage() storage.ArtifactStore {
	return s.storage
}
