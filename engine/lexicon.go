package engine

// DefaultLexicon is the built-in English profanity list.
func DefaultLexicon() []string {
	out := make([]string, len(defaultLexicon))
	copy(out, defaultLexicon)
	return out
}

var defaultLexicon = []string{
	"anal", "anus", "arse", "arsehole", "ass", "asses", "asshole", "assholes",
	"bastard", "bastards", "bitch", "bitches", "bitching", "bitchy", "blowjob",
	"bollocks", "boner", "boob", "boobs", "bullshit", "butthole", "clit",
	"cock", "cocks", "cocksucker", "crap", "cum", "cunt", "cunts", "dick",
	"dickhead", "dildo", "dipshit", "douche", "douchebag", "dyke", "fag",
	"faggot", "fags", "fatass", "fuck", "fucked", "fucker", "fuckers",
	"fuckhead", "fucking", "fucks", "fuckup", "goddamn", "handjob", "horseshit",
	"jackass", "jerkoff", "jizz", "kike", "motherfucker", "motherfucking",
	"nigga", "nigger", "nutsack", "orgasm", "penis", "piss", "pissed", "porn",
	"porno", "prick", "pussy", "rape", "rapist", "retard", "scrotum", "shit",
	"shits", "shitty", "shithead", "skank", "slut", "sluts", "spic", "tits",
	"titties", "twat", "vagina", "wank", "wanker", "whore", "whores",
}
