package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-rag/internal/models"
)

const corpusJSON = `[
  {
    "fileName": "resp_123.json",
    "content": [
      {
        "page": 1,
        "case_info": {"classe": "REsp 123/SP"},
        "parties_and_roles": {"relator": "MINISTRO FULANO", "agravante": "EMPRESA X"},
        "ementa": {
          "title": "EMENTA",
          "body": "TRIBUTÁRIO. EXECUÇÃO FISCAL.",
          "points": ["1. Primeiro ponto.", "2. Segundo ponto."]
        },
        "document_footer": "rodapé",
        "numero_registro": "2020/0000000-0"
      },
      {
        "page": 2,
        "acordao": "Vistos e relatados estes autos.",
        "document_signature_info_page2": "assinado eletronicamente"
      }
    ]
  },
  {
    "fileName": "vazio.json",
    "content": [
      {"page": 1, "fileName": "vazio.json", "numero_origem": "0001"}
    ]
  },
  {"semEstrutura": true}
]`

func TestParseCorpus(t *testing.T) {
	docs, err := ParseCorpus([]byte(corpusJSON))
	require.NoError(t, err)

	// second document has text only under ignored keys and is dropped,
	// third is malformed and skipped
	require.Len(t, docs, 1)
	doc := docs[0]

	assert.Equal(t, "resp_123.json", doc.Source)
	assert.Equal(t,
		"REsp 123/SP MINISTRO FULANO EMPRESA X TRIBUTÁRIO. EXECUÇÃO FISCAL. 1. Primeiro ponto. 2. Segundo ponto. Vistos e relatados estes autos.",
		doc.FullText)
	assert.Equal(t, "TRIBUTÁRIO. EXECUÇÃO FISCAL. 1. Primeiro ponto. 2. Segundo ponto.", doc.Ementa)

	assert.Equal(t, "resp_123.json", doc.Metadata.FileName)
	assert.Equal(t, map[string]any{"classe": "REsp 123/SP"}, doc.Metadata.CaseInfo)
	assert.Equal(t, "MINISTRO FULANO", doc.Metadata.Relator)
}

func TestParseCorpusEmentaSentinel(t *testing.T) {
	docs, err := ParseCorpus([]byte(`[
	  {"fileName": "a.json", "content": [{"page": 1, "acordao": "Texto da decisão."}]}
	]`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, models.EmentaNotFound, docs[0].Ementa)
}

func TestParseCorpusEmentaBodyOnly(t *testing.T) {
	docs, err := ParseCorpus([]byte(`[
	  {"fileName": "a.json", "content": [{"ementa": {"body": "SÓ O CORPO."}, "acordao": "x"}]}
	]`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "SÓ O CORPO.", docs[0].Ementa)
}

func TestParseCorpusRootNotAList(t *testing.T) {
	_, err := ParseCorpus([]byte(`{"fileName": "a.json"}`))
	assert.ErrorIs(t, err, ErrBadCorpusFormat)
}

func TestParseCorpusInvalidJSON(t *testing.T) {
	_, err := ParseCorpus([]byte(`[{`))
	assert.Error(t, err)
}

func TestParseCorpusPreservesKeyOrder(t *testing.T) {
	docs, err := ParseCorpus([]byte(`[
	  {"fileName": "a.json", "content": [{"zeta": "segundo", "alfa": "primeiro"}]}
	]`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	// source order, not lexicographic order
	assert.Equal(t, "segundo primeiro", docs[0].FullText)
}

func TestParseCorpusDropsNonStringLeaves(t *testing.T) {
	docs, err := ParseCorpus([]byte(`[
	  {"fileName": "a.json", "content": [{"texto": "válido", "n": 42, "ok": true, "nada": null}]}
	]`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "válido", docs[0].FullText)
}

func TestParseReformatted(t *testing.T) {
	docs, err := ParseReformatted([]byte(`[
	  {"source": "resp_1.json", "ementa": "PROCESSUAL CIVIL. AGRAVO INTERNO."},
	  {"source": "", "ementa": "descartado"},
	  {"source": "resp_2.json", "ementa": ""}
	]`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "resp_1.json", docs[0].Source)
	assert.Equal(t, "PROCESSUAL CIVIL. AGRAVO INTERNO.", docs[0].FullText)
	assert.Equal(t, docs[0].FullText, docs[0].Ementa)
}

func TestParseReformattedRootNotAList(t *testing.T) {
	_, err := ParseReformatted([]byte(`{"source": "a"}`))
	assert.ErrorIs(t, err, ErrBadCorpusFormat)
}
