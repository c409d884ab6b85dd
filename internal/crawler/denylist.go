package crawler

// UI and marketing noise that leaks into listing links on every agency
var uiNoiseTerms = []string{
	"magazyn", "menu", "nawigacja", "strona główna", "kontakt", "o nas", "blog",
	"masz pytanie", "potrzebujesz pomocy", "newsletter", "zaloguj", "zarejestruj",
}

// Travelplanet links also carry promotional text and destination names
var travelplanetDenylist = concatTerms(uiNoiseTerms, travelplanetMarketingTerms, geographyTerms)

var travelplanetMarketingTerms = []string{
	"nieznany hotel", "wakacje", "last minute", "first minute", "promocje", "oferty",
	"wczasy", "wycieczki", "all inclusive", "lato", "zima", "wiosna", "jesień", "egzotyka",
	"wypoczynek", "zwiedzanie", "rezerwuj", "zarezerwuj", "sprawdź", "zobacz", "więcej",
	"czytaj", "popularne", "polecane", "bestseller", "hit", "bez paszportu", "dla singli",
	"singli", "paszport",
}

var geographyTerms = []string{
	"turcja", "grecja", "egipt", "hiszpania", "włochy", "chorwacja", "cypr", "malta",
	"portugalia", "tunezja", "maroko", "dominikana", "meksyk", "kuba", "tajlandia", "bali",
	"malediwy", "mauritius", "seszele", "zanzibar", "kenia", "tanzania", "rpa", "australia",
	"nowa zelandia", "usa", "kanada", "brazylia", "argentyna", "chile", "peru", "kolumbia",
	"ekwador", "wenezuela", "boliwia", "paragwaj", "urugwaj", "kostaryka", "panama",
	"nikaragua", "gwatemala", "belize", "salwador", "honduras", "jamajka", "bahamy",
	"barbados", "aruba", "curacao", "bonaire", "st. maarten", "st. lucia", "grenada",
	"antigua", "barbuda", "dominika", "st. kitts", "nevis", "trinidad", "tobago",
	"wyspy dziewicze", "portoryko", "kajmany", "turks", "caicos", "bermudy", "azory",
	"madera", "wyspy kanaryjskie", "baleary", "majorka", "minorka", "ibiza", "formentera",
	"sardynia", "sycylia", "korsyka", "kreta", "rodos", "kos", "zakynthos", "korfu",
	"santorini", "mykonos", "lesbos", "samos", "chios", "lemnos", "thassos", "samothraki",
	"skiathos", "skopelos", "alonissos", "skyros", "evia", "spetses", "hydra", "poros",
	"aegina", "andros", "tinos", "syros", "paros", "naxos", "ios", "amorgos", "milos",
	"sifnos", "serifos", "kythnos", "kea", "folegandros", "sikinos", "anafi", "kimolos",
	"antiparos", "donoussa", "koufonisia", "schinoussa", "iraklia", "gyali", "nisyros",
	"tilos", "symi", "chalki", "kastellorizo", "astypalaia", "kalymnos", "leros", "patmos",
	"lipsi", "agathonisi", "arki", "marathi", "telendos", "pserimos", "farmakonisi",
	"kinaros", "levitha", "strongyli", "alimia", "saria", "armathia", "kasos", "karpathos",
	"gavdos", "chrysi", "koufonisi", "paximadia", "dia", "dionisades", "spinalonga", "souda",
	"gramvousa", "elafonisi", "imeri gramvousa", "agria gramvousa", "pontikonisi", "thodorou",
	"lazareta", "agioi theodoroi", "loutraki", "psili ammos", "tigani", "marathonisi",
	"pelouzo", "schiza", "sapientza", "venetiko", "proti", "sfaktiria", "koronisi", "romvi",
	"daskalio", "koronisia", "oxia", "echinades", "kalamos", "kastos", "atokos", "arkoudi",
	"meganisi", "skorpios", "skorpidi", "madouri", "sparti", "heloni", "sofia",
	"karlovi vary", "praga", "budapeszt", "wiedeń", "salzburg", "innsbruck", "graz", "linz",
	"klagenfurt", "villach", "wels", "steyr", "wiener neustadt", "dornbirn", "feldkirch",
	"bregenz", "wolfsberg", "leoben", "krems", "traun", "amstetten", "kapfenberg", "lustenau",
	"mödling", "hallein", "kufstein", "traiskirchen", "schwechat", "braunau am inn",
	"stockerau", "saalfelden", "ansfelden", "tulln", "hohenems", "spittal an der drau",
	"telfs", "ternitz", "perchtoldsdorf", "feldkirchen", "bludenz", "gmunden", "marchtrenk",
	"klosterneuburg", "wolfurt", "götzis", "wörgl", "wals-siezenheim", "rankweil", "zwettl",
	"hollabrunn", "enns", "brunn am gebirge", "gerasdorf", "korneuburg", "hard",
	"vöcklabruck", "lienz", "eisenstadt", "schwaz", "hall in tirol", "bischofshofen",
	"waidhofen", "mistelbach", "groß-enzersdorf", "völkermarkt", "st. johann im pongau",
	"neunkirchen", "gänserndorf", "seiersberg", "seekirchen am wallersee", "herzogenburg",
	"trofaiach", "ebreichsdorf", "kitzbühel", "knittelfeld", "wörth", "rum", "bad ischl",
	"fürstenfeld", "zell am see", "st. andrä", "oberndorf", "altach", "st. valentin",
	"radstadt", "liezen", "imst", "deutschlandsberg", "köflach", "ried im innkreis", "weiz",
	"bad vöslau", "fischamend", "bruck an der mur", "jennersdorf", "güssing",
	"oberpullendorf", "mattersburg", "neusiedl am see", "oberwart", "hartberg", "gleisdorf",
	"kindberg", "judenburg", "fohnsdorf", "zeltweg", "murau", "neumarkt", "frohnleiten",
	"voitsberg", "leibnitz", "wildon", "feldbach", "fehring", "anger", "passail",
	"pischelsdorf", "friedberg", "pinkafeld", "ilz",
}

func concatTerms(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
