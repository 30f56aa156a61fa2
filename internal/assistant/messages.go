package assistant

type phrasebook struct {
	greeting    string
	emptyReply  string
	unavailable string
}

var phrases = map[Language]phrasebook{
	English: {
		greeting:    "Hi! I'm your AI assistant. Ask me anything about your files.",
		emptyReply:  "I'm sorry, I couldn't process that.",
		unavailable: "Error connecting to AI service.",
	},
	Portuguese: {
		greeting:    "Olá! Sou seu assistente de IA. Pergunte qualquer coisa sobre seus arquivos.",
		emptyReply:  "Desculpe, não consegui processar isso.",
		unavailable: "Erro ao conectar com a IA.",
	},
}

func phrasesFor(lang Language) phrasebook {
	if p, ok := phrases[lang]; ok {
		return p
	}
	return phrases[Portuguese]
}

// Greeting is the first assistant message of a conversation
func Greeting(lang Language) string {
	return phrasesFor(lang).greeting
}

// FailureText returns the localized text shown for a failed request
func FailureText(lang Language, kind ErrorKind) string {
	p := phrasesFor(lang)
	if kind == EmptyReply {
		return p.emptyReply
	}
	return p.unavailable
}
