package models

const (
	// EmentaNotFound is the sentinel returned when a decision has no
	// headnote. Callers must treat this exact value as "no headnote",
	// never as literal content.
	EmentaNotFound = "Ementa não encontrada."

	// ContextSeparator sits between retrieved chunks inside the prompt.
	ContextSeparator = "\n\n---\n\n"

	// NoContextPlaceholder replaces the context block when retrieval
	// returned nothing, keeping the prompt shape stable for the LLM.
	NoContextPlaceholder = "Nenhuma informação específica encontrada nos documentos para esta pergunta."

	// NoSourcesLine closes the prompt when no sources contributed.
	NoSourcesLine = "Nenhuma fonte específica."

	// SourcesPrefix introduces the list of distinct contributing documents.
	SourcesPrefix = "Fontes consultadas: "

	// GenerationFallback is the user-safe answer produced when the
	// generation call fails. Raw provider errors never reach the caller.
	GenerationFallback = "Ocorreu um erro ao tentar gerar a resposta principal. Por favor, tente novamente."
)

// AnswerPromptTemplate is the grounded-generation prompt. The placeholders
// are the joined chunk context, the user question and the sources line.
var AnswerPromptTemplate = `Você é VeritasJuris, um assistente de IA especializado em Direito brasileiro.
Sua tarefa é responder à pergunta do usuário de forma clara, concisa e fundamentada EXCLUSIVAMENTE
nas informações contidas nos seguintes trechos de jurisprudência.
Não utilize conhecimento externo. Se a informação não estiver nos trechos, diga que não pode responder com base no material fornecido.
Ao final da sua resposta, mencione os documentos que foram consultados, se houver.

TRECHOS DA JURISPRUDÊNCIA (use estes para basear sua resposta):
%s

PERGUNTA DO USUÁRIO:
%s

RESPOSTA FUNDAMENTADA:
[Sua resposta aqui]

%s
`
