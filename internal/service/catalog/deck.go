package catalog

// DeckSize is the number of cards in the traditional deck.
const DeckSize = 54

type deckEntry struct {
	Ordinal  int
	Name     string
	ImageRef string
}

var deck = []deckEntry{
	{1, "El Gallo", "/cards/01-el-gallo.jpg"},
	{2, "El Diablito", "/cards/02-el-diablito.jpg"},
	{3, "La Dama", "/cards/03-la-dama.jpg"},
	{4, "El Catrín", "/cards/04-el-catrin.jpg"},
	{5, "El Paraguas", "/cards/05-el-paraguas.jpg"},
	{6, "La Sirena", "/cards/06-la-sirena.jpg"},
	{7, "La Escalera", "/cards/07-la-escalera.jpg"},
	{8, "La Botella", "/cards/08-la-botella.jpg"},
	{9, "El Barril", "/cards/09-el-barril.jpg"},
	{10, "El Árbol", "/cards/10-el-arbol.jpg"},
	{11, "El Melón", "/cards/11-el-melon.jpg"},
	{12, "El Valiente", "/cards/12-el-valiente.jpg"},
	{13, "El Gorrito", "/cards/13-el-gorrito.jpg"},
	{14, "La Muerte", "/cards/14-la-muerte.jpg"},
	{15, "La Pera", "/cards/15-la-pera.jpg"},
	{16, "La Bandera", "/cards/16-la-bandera.jpg"},
	{17, "El Bandolón", "/cards/17-el-bandolon.jpg"},
	{18, "El Violoncello", "/cards/18-el-violoncello.jpg"},
	{19, "La Garza", "/cards/19-la-garza.jpg"},
	{20, "El Pájaro", "/cards/20-el-pajaro.jpg"},
	{21, "La Mano", "/cards/21-la-mano.jpg"},
	{22, "La Bota", "/cards/22-la-bota.jpg"},
	{23, "La Luna", "/cards/23-la-luna.jpg"},
	{24, "El Cotorro", "/cards/24-el-cotorro.jpg"},
	{25, "El Borracho", "/cards/25-el-borracho.jpg"},
	{26, "El Negrito", "/cards/26-el-negrito.jpg"},
	{27, "El Corazón", "/cards/27-el-corazon.jpg"},
	{28, "La Sandía", "/cards/28-la-sandia.jpg"},
	{29, "El Tambor", "/cards/29-el-tambor.jpg"},
	{30, "El Camarón", "/cards/30-el-camaron.jpg"},
	{31, "Las Jaras", "/cards/31-las-jaras.jpg"},
	{32, "El Músico", "/cards/32-el-musico.jpg"},
	{33, "La Araña", "/cards/33-la-arana.jpg"},
	{34, "El Soldado", "/cards/34-el-soldado.jpg"},
	{35, "La Estrella", "/cards/35-la-estrella.jpg"},
	{36, "El Cazo", "/cards/36-el-cazo.jpg"},
	{37, "El Mundo", "/cards/37-el-mundo.jpg"},
	{38, "El Apache", "/cards/38-el-apache.jpg"},
	{39, "El Nopal", "/cards/39-el-nopal.jpg"},
	{40, "El Alacrán", "/cards/40-el-alacran.jpg"},
	{41, "La Rosa", "/cards/41-la-rosa.jpg"},
	{42, "La Calavera", "/cards/42-la-calavera.jpg"},
	{43, "La Campana", "/cards/43-la-campana.jpg"},
	{44, "El Cantarito", "/cards/44-el-cantarito.jpg"},
	{45, "El Venado", "/cards/45-el-venado.jpg"},
	{46, "El Sol", "/cards/46-el-sol.jpg"},
	{47, "La Corona", "/cards/47-la-corona.jpg"},
	{48, "La Chalupa", "/cards/48-la-chalupa.jpg"},
	{49, "El Pino", "/cards/49-el-pino.jpg"},
	{50, "El Pescado", "/cards/50-el-pescado.jpg"},
	{51, "La Palma", "/cards/51-la-palma.jpg"},
	{52, "La Maceta", "/cards/52-la-maceta.jpg"},
	{53, "El Arpa", "/cards/53-el-arpa.jpg"},
	{54, "La Rana", "/cards/54-la-rana.jpg"},
}
