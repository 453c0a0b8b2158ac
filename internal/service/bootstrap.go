package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

// BootstrapConfig controls the one-time startup seeding.
type BootstrapConfig struct {
	AdminUsername  string
	AdminPassword  string
	SeedSampleNews bool
}

// Bootstrap makes sure the configured admin exists with the configured
// password and, when asked, seeds a few news posts into an empty collection.
// It is safe to run on every start. Other principals are left alone.
func Bootstrap(ctx context.Context, log zerolog.Logger, cfg BootstrapConfig, authSvc AuthService, news repository.RecordRepository[*model.News]) error {
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := authSvc.EnsurePrincipal(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin principal: %w", err)
		}
		log.Info().Str("username", cfg.AdminUsername).Msg("bootstrap_admin_ensured")
	} else {
		log.Warn().Msg("bootstrap_admin_skipped")
	}

	if !cfg.SeedSampleNews {
		return nil
	}
	existing, err := news.List(ctx, model.Filter{}, repository.PageQuery{Limit: 1})
	if err != nil {
		return fmt.Errorf("count news: %w", err)
	}
	if existing.Total > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, n := range sampleNews(now) {
		if err := news.Create(ctx, n); err != nil {
			return fmt.Errorf("seed news: %w", err)
		}
	}
	log.Info().Int("count", 3).Msg("bootstrap_sample_news_created")
	return nil
}

func sampleNews(now time.Time) []*model.News {
	mk := func(age time.Duration, title, content, category string) *model.News {
		at := now.Add(-age)
		return &model.News{
			Meta:     model.Meta{ID: uuid.New().String(), CreatedAt: at, UpdatedAt: at},
			Title:    title,
			Content:  content,
			Category: category,
			Author:   "Cotidiano em Debate",
		}
	}
	day := 24 * time.Hour
	return []*model.News{
		mk(2*day, "Bem-vindos ao Repositório Cotidiano em Debate",
			"Estamos orgulhosos de apresentar nossa nova plataforma digital para compartilhamento de produção acadêmica. Aqui você encontrará artigos, projetos, livros e outros materiais de pesquisa.",
			"Geral"),
		mk(day, "Nova Funcionalidade: Player de Áudio",
			"Implementamos um player nativo para reprodução de arquivos de áudio diretamente no navegador. Agora você pode ouvir podcasts e gravações acadêmicas sem precisar fazer download.",
			"Tecnologia"),
		mk(0, "Integração com DOI CrossRef",
			"Nossa plataforma agora possui integração automática com a API CrossRef, permitindo o preenchimento automático de metadados através do DOI. Isso facilita o cadastro de artigos e garante maior precisão das informações.",
			"Funcionalidade"),
	}
}
