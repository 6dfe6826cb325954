package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hendelse "supstonad/internal/hendelse/models"
	id "supstonad/pkg/domain"
)

var t0 = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func detaljer(versjon hendelse.Versjon, vedtakID string, tidspunkt time.Time, status Status) KnyttetHendelse {
	hid := id.NewHendelseID()
	return KnyttetHendelse{
		HendelseID: hid,
		Versjon:    versjon,
		Data: KnyttetTilSak{
			Detaljer: &Kravgrunnlag{
				HendelseID:            hid,
				EksternKravgrunnlagID: "kg-" + tidspunkt.Format("150405"),
				EksternVedtakID:       vedtakID,
				EksternTidspunkt:      tidspunkt,
				Status:                status,
				Grunnlagsperioder: []Grunnlagsperiode{{
					Maaned:               "2024-01",
					BruttoFeilutbetaling: decimal.NewFromInt(1000),
				}},
			},
		},
	}
}

func statusendring(versjon hendelse.Versjon, vedtakID string, tidspunkt time.Time, status Status) KnyttetHendelse {
	return KnyttetHendelse{
		HendelseID: id.NewHendelseID(),
		Versjon:    versjon,
		Data: KnyttetTilSak{
			Statusendring: &Statusendring{EksternVedtakID: vedtakID, Status: status, EksternTidspunkt: tidspunkt},
		},
	}
}

func TestFoldGjeldende(t *testing.T) {
	t.Run("no claims gives nil", func(t *testing.T) {
		assert.Nil(t, Fold(nil).Gjeldende())
		assert.Nil(t, Fold([]KnyttetHendelse{statusendring(1, "v1", t0, StatusSperret)}).Gjeldende())
	})

	t.Run("newest claim by external timestamp wins over arrival order", func(t *testing.T) {
		newer := detaljer(1, "v1", t0.Add(time.Hour), StatusEndret)
		older := detaljer(2, "v1", t0, StatusNytt)

		got := Fold([]KnyttetHendelse{newer, older}).Gjeldende()
		require.NotNil(t, got)
		assert.Equal(t, newer.HendelseID, got.HendelseID)
		assert.Equal(t, StatusEndret, got.Status)
	})

	t.Run("equal timestamps are broken by versjon", func(t *testing.T) {
		first := detaljer(3, "v1", t0, StatusNytt)
		second := detaljer(4, "v1", t0, StatusEndret)

		got := Fold([]KnyttetHendelse{second, first}).Gjeldende()
		require.NotNil(t, got)
		assert.Equal(t, second.HendelseID, got.HendelseID)
	})

	t.Run("status change before the claim timestamp is ignored", func(t *testing.T) {
		got := Fold([]KnyttetHendelse{
			statusendring(1, "v1", t0.Add(-time.Minute), StatusSperret),
			detaljer(2, "v1", t0, StatusNytt),
		}).Gjeldende()
		assert.Equal(t, StatusNytt, got.Status)
	})

	t.Run("last status at or after the claim timestamp wins", func(t *testing.T) {
		got := Fold([]KnyttetHendelse{
			detaljer(1, "v1", t0, StatusNytt),
			statusendring(2, "v1", t0, StatusSperret),
			statusendring(4, "v1", t0.Add(2*time.Hour), StatusManuell),
			statusendring(3, "v1", t0.Add(time.Hour), StatusAvsluttet),
		}).Gjeldende()
		assert.Equal(t, StatusManuell, got.Status)
	})

	t.Run("status change for another vedtak is ignored", func(t *testing.T) {
		got := Fold([]KnyttetHendelse{
			detaljer(1, "v1", t0, StatusNytt),
			statusendring(2, "v2", t0.Add(time.Hour), StatusAnnulert),
		}).Gjeldende()
		assert.Equal(t, StatusNytt, got.Status)
	})

	t.Run("fold does not mutate the stored claim", func(t *testing.T) {
		d := detaljer(1, "v1", t0, StatusNytt)
		Fold([]KnyttetHendelse{d, statusendring(2, "v1", t0.Add(time.Hour), StatusSperret)}).Gjeldende()
		assert.Equal(t, StatusNytt, d.Data.Detaljer.Status)
	})
}

func TestFoldReplayIsIdempotent(t *testing.T) {
	d := detaljer(1, "v1", t0, StatusNytt)
	s1 := statusendring(2, "v1", t0.Add(time.Hour), StatusSperret)
	s2 := statusendring(3, "v1", t0.Add(2*time.Hour), StatusEndret)

	once := Fold([]KnyttetHendelse{d, s1, s2}).Gjeldende()
	replayed := Fold([]KnyttetHendelse{s2, d, s1, s2, s1}).Gjeldende()

	assert.Equal(t, once, replayed)
}

func TestUtestaaende(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   bool
	}{
		{StatusNytt, true},
		{StatusEndret, true},
		{StatusManuell, true},
		{StatusSperret, true},
		{StatusAnnulert, false},
		{StatusAnnulertVedOmg, false},
		{StatusAvsluttet, false},
		{StatusFerdigbehandlet, false},
		{StatusFeil, false},
	} {
		t.Run(string(tc.status), func(t *testing.T) {
			got := Fold([]KnyttetHendelse{detaljer(1, "v1", t0, tc.status)}).Utestaaende(nil)
			assert.Equal(t, tc.want, got != nil)
		})
	}

	t.Run("claim consumed by an iverksatt behandling is not outstanding", func(t *testing.T) {
		d := detaljer(1, "v1", t0, StatusNytt)
		got := Fold([]KnyttetHendelse{d}).Utestaaende(func(h id.HendelseID) bool { return h == d.HendelseID })
		assert.Nil(t, got)
	})
}

func TestDuplicateDetection(t *testing.T) {
	d := detaljer(1, "v1", t0, StatusNytt)
	s := statusendring(2, "v1", t0, StatusSperret)
	p := Fold([]KnyttetHendelse{d, s})

	assert.True(t, p.HarKravgrunnlag(*d.Data.Detaljer))
	assert.True(t, p.HarStatusendring(*s.Data.Statusendring))
	assert.False(t, p.HarStatusendring(Statusendring{EksternVedtakID: "v1", Status: StatusNytt, EksternTidspunkt: t0}))
	assert.Len(t, p.Alle(), 1)
}

func TestStatusKode(t *testing.T) {
	for kode, status := range statusByKode {
		got, err := ParseStatusKode(kode)
		require.NoError(t, err)
		assert.Equal(t, status, got)
		assert.Equal(t, kode, status.Kode())
	}
	_, err := ParseStatusKode("XYZ")
	assert.Error(t, err)
}

func TestParseMaaned(t *testing.T) {
	m, err := ParseMaaned("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, Maaned("2024-02"), m)

	_, err = ParseMaaned("feb")
	assert.Error(t, err)
}
