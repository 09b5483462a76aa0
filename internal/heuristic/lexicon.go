package heuristic

// lexicon is an AFINN-style valence table. Values range from -5 to 5.
var lexicon = map[string]int{
	// positive
	"able": 1, "accept": 1, "accepted": 1, "accomplish": 2, "accomplished": 2, "admire": 3,
	"adorable": 3, "advantage": 2, "adventure": 2, "agree": 1, "amaze": 2, "amazed": 2,
	"amazing": 4, "appreciate": 2, "appreciated": 2, "approve": 2, "awesome": 4, "beautiful": 3,
	"benefit": 2, "best": 3, "better": 2, "bless": 2, "blessed": 3, "bliss": 3, "brave": 2,
	"breakthrough": 3, "bright": 1, "brilliant": 4, "calm": 2, "care": 2, "celebrate": 3,
	"charming": 3, "cheer": 2, "cheerful": 2, "clean": 2, "clever": 2, "comfort": 2,
	"comfortable": 2, "confident": 2, "cool": 1, "courage": 2, "creative": 2, "delight": 3,
	"delighted": 3, "delightful": 3, "eager": 2, "easy": 1, "effective": 2, "efficient": 2,
	"elegant": 2, "encourage": 2, "energetic": 2, "enjoy": 2, "enjoyed": 2, "enthusiastic": 3,
	"excellent": 3, "excited": 3, "exciting": 3, "fabulous": 4, "fair": 2, "fantastic": 4,
	"favorite": 2, "fine": 2, "fortunate": 2, "free": 1, "fresh": 1, "friendly": 2, "fun": 4,
	"generous": 2, "gentle": 2, "glad": 3, "glorious": 2, "good": 3, "gorgeous": 3, "grateful": 3,
	"great": 3, "happiness": 3, "happy": 3, "harmony": 2, "healthy": 2, "heaven": 2, "helpful": 2,
	"hope": 2, "hopeful": 2, "impressed": 3, "impressive": 3, "improve": 2, "improved": 2,
	"incredible": 3, "innovative": 2, "inspire": 2, "inspired": 2, "inspiring": 3, "interesting": 2,
	"joy": 3, "joyful": 3, "kind": 2, "laugh": 1, "like": 2, "liked": 2, "love": 3, "loved": 3,
	"lovely": 3, "loving": 2, "lucky": 3, "magnificent": 3, "marvelous": 3, "nice": 3,
	"optimistic": 2, "outstanding": 5, "peaceful": 2, "perfect": 3, "pleasant": 3, "pleased": 3,
	"popular": 3, "positive": 2, "powerful": 2, "praise": 3, "pretty": 1, "proud": 2,
	"recommend": 2, "relaxed": 2, "reliable": 2, "remarkable": 2, "rich": 2, "safe": 1,
	"satisfied": 2, "smart": 1, "smile": 2, "smooth": 1, "solid": 2, "special": 2, "splendid": 3,
	"strong": 2, "stunning": 4, "success": 2, "successful": 3, "super": 3, "superb": 5,
	"support": 2, "supportive": 2, "sweet": 2, "terrific": 4, "thank": 2, "thankful": 2,
	"thanks": 2, "thrilled": 5, "top": 2, "trust": 1, "useful": 2, "valuable": 2, "victory": 3,
	"warm": 1, "welcome": 2, "win": 4, "winner": 4, "wonderful": 4, "worth": 2, "wow": 4, "yes": 1,

	// negative
	"abandon": -2, "abuse": -3, "accident": -2, "afraid": -2, "aggressive": -2, "alarm": -2,
	"angry": -3, "anger": -3, "annoy": -2, "annoyed": -2, "annoying": -2, "anxious": -2,
	"ashamed": -2, "awful": -3, "bad": -3, "betray": -3, "bitter": -2, "blame": -2, "bored": -2,
	"boring": -3, "broken": -1, "bug": -2, "careless": -2, "catastrophe": -3, "cheat": -3,
	"complain": -2, "confused": -2, "crash": -2, "crazy": -2, "crisis": -3, "cruel": -3, "cry": -1,
	"damage": -3, "danger": -2, "dangerous": -2, "dead": -3, "death": -2, "defeat": -2,
	"depressed": -2, "despair": -3, "destroy": -3, "difficult": -1, "dirty": -2, "disappoint": -2,
	"disappointed": -2, "disappointing": -2, "disaster": -2, "disgust": -3, "disgusting": -3,
	"dislike": -2, "dreadful": -3, "dull": -2, "embarrassed": -2, "error": -2, "evil": -3,
	"fail": -2, "failed": -2, "failure": -2, "fake": -3, "fear": -2, "fearful": -2, "fight": -1,
	"frustrated": -2, "frustrating": -2, "furious": -3, "guilty": -3, "hard": -1, "harm": -2,
	"hate": -3, "hated": -3, "horrible": -3, "hostile": -2, "hurt": -2, "ignore": -1, "ill": -2,
	"inferior": -2, "insult": -2, "irritated": -3, "jealous": -2, "kill": -3, "lazy": -1,
	"lonely": -2, "lose": -3, "loss": -3, "lost": -3, "mad": -3, "mess": -2, "miserable": -3,
	"mistake": -2, "nasty": -3, "negative": -2, "nervous": -2, "noisy": -1, "pain": -2,
	"painful": -2, "panic": -3, "pathetic": -2, "poor": -2, "problem": -2, "rage": -2, "regret": -2,
	"reject": -1, "rejected": -1, "risk": -2, "rude": -2, "ruin": -2, "sad": -2, "sadness": -2,
	"scared": -2, "shame": -2, "shock": -2, "sick": -2, "slow": -2, "sorry": -1, "stress": -1,
	"stressed": -2, "stupid": -2, "suffer": -2, "terrible": -3, "terrified": -3, "threat": -2,
	"tired": -2, "trouble": -2, "ugly": -3, "unfair": -2, "unhappy": -2, "upset": -2,
	"useless": -2, "violent": -3, "waste": -1, "weak": -2, "worried": -3, "worry": -3,
	"worse": -3, "worst": -3, "wrong": -2,
}

// negators flip the valence of the following token.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "cannot": true, "don't": true, "doesn't": true,
	"didn't": true, "isn't": true, "wasn't": true, "aren't": true, "weren't": true, "can't": true,
	"won't": true, "wouldn't": true, "shouldn't": true, "couldn't": true, "hardly": true,
}
