package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	hendelse "supstonad/internal/hendelse/models"
	"supstonad/internal/kravgrunnlag/models"
	"supstonad/internal/kravgrunnlag/parser"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/requestcontext"
)

// Utfall is the outcome of linking one raw claim.
type Utfall string

const (
	UtfallKnyttet   Utfall = "knyttet"
	UtfallDuplikat  Utfall = "duplikat"
	UtfallUkjentSak Utfall = "ukjent_sak"
	UtfallParsefeil Utfall = "parsefeil"
	UtfallKonflikt  Utfall = "konflikt"
)

// KnyttResultat counts the outcomes of one linker pass.
type KnyttResultat struct {
	Knyttet  int
	Duplikat int
	Utsatt   int
}

// Behandlet is the number of raw claims the pass marked as processed.
func (r KnyttResultat) Behandlet() int { return r.Knyttet + r.Duplikat }

// KnyttTilSak links every unprocessed raw claim to its sak. Each claim is handled
// in its own transaction; claims that cannot be linked yet stay unprocessed and
// are retried on the next pass. A pass pages through the whole backlog in
// batches, so deferred claims never hide the ones behind them.
func (s *Service) KnyttTilSak(ctx context.Context) (KnyttResultat, error) {
	var (
		res   KnyttResultat
		etter id.HendelseID
	)
	for {
		ids, err := s.hendelser.HentUprosesserte(ctx, models.KonsumentKnyttTilSak, models.HendelseRaattKravgrunnlag, etter, s.batchSize)
		if err != nil {
			return res, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list unprocessed kravgrunnlag")
		}

		for _, hendelseID := range ids {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			hctx := requestcontext.WithCorrelationID(ctx, hendelseID.String())
			utfall, err := s.knyttEn(hctx, hendelseID)
			if err != nil {
				return res, err
			}
			s.metrics.IncrementKnyttet(string(utfall))
			switch utfall {
			case UtfallKnyttet:
				res.Knyttet++
			case UtfallDuplikat:
				res.Duplikat++
			default:
				res.Utsatt++
			}
		}
		if len(ids) < s.batchSize {
			return res, nil
		}
		etter = ids[len(ids)-1]
	}
}

func (s *Service) knyttEn(ctx context.Context, hendelseID id.HendelseID) (Utfall, error) {
	var utfall Utfall
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		raw, err := s.hendelser.Hent(ctx, hendelseID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load raw kravgrunnlag")
		}
		var data models.RaattKravgrunnlag
		if err := raw.Decode(&data); err != nil {
			return err
		}

		parsed, err := parser.Parse(data.Melding, data.Mottatt)
		if err != nil {
			s.logger.ErrorContext(ctx, "could not parse kravgrunnlag",
				"hendelse_id", hendelseID.String(),
				"melding_id", data.MeldingID,
				"error", err,
			)
			utfall = UtfallParsefeil
			return nil
		}

		saksnummer := parsed.Saksnummer()
		sak, err := s.saker.HentForSaksnummer(ctx, saksnummer)
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "kravgrunnlag for unknown saksnummer",
				"hendelse_id", hendelseID.String(),
				"saksnummer", saksnummer.String(),
			)
			utfall = UtfallUkjentSak
			return nil
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve sak for kravgrunnlag")
		}

		paaSak, err := s.HentPaaSak(ctx, sak.ID)
		if err != nil {
			return err
		}
		if erAlleredeKnyttet(paaSak, parsed) {
			utfall = UtfallDuplikat
			return s.markerProsessert(ctx, hendelseID)
		}

		versjon, err := s.hendelser.HentSisteVersjon(ctx, sak.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sak versjon")
		}
		knyttet := models.KnyttetTilSak{
			RaattHendelseID: hendelseID,
			Detaljer:        parsed.Kravgrunnlag,
			Statusendring:   parsed.Statusendring,
		}
		h, err := hendelse.NySakshendelse(sak.ID, versjon.Neste(), models.HendelseKnyttetTilSak,
			uuid.UUID(hendelseID), s.now(ctx), knyttet, hendelse.MetadataFra(ctx))
		if err != nil {
			return err
		}
		h.TidligereHendelseID = hendelseID
		if err := s.hendelser.Append(ctx, h); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return errKonflikt
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to link kravgrunnlag")
		}
		if err := s.markerProsessert(ctx, hendelseID); err != nil {
			return err
		}

		utfall = UtfallKnyttet
		s.logger.InfoContext(ctx, "kravgrunnlag linked to sak",
			"hendelse_id", hendelseID.String(),
			"sak_id", sak.ID.String(),
			"versjon", int64(h.Versjon),
		)
		return nil
	})
	if errors.Is(err, errKonflikt) {
		s.logger.WarnContext(ctx, "sak changed while linking kravgrunnlag, retrying next pass",
			"hendelse_id", hendelseID.String(),
		)
		return UtfallKonflikt, nil
	}
	return utfall, err
}

var errKonflikt = errors.New("sak versjon changed")

func (s *Service) markerProsessert(ctx context.Context, hendelseID id.HendelseID) error {
	if err := s.hendelser.MarkerSomProsessert(ctx, models.KonsumentKnyttTilSak, hendelseID, s.now(ctx)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark kravgrunnlag as processed")
	}
	return nil
}

func erAlleredeKnyttet(p *models.PaaSak, parsed parser.Resultat) bool {
	if parsed.Kravgrunnlag != nil {
		return p.HarKravgrunnlag(*parsed.Kravgrunnlag)
	}
	return p.HarStatusendring(*parsed.Statusendring)
}
