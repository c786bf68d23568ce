package reconcile

// builtinAliases maps footballtransfers.com spellings to fbref spellings.
var builtinAliases = map[string]string{
	"Bobby Reid":           "Bobby De Cordova-Reid",
	"Heung-min Son":        "Son Heung-min",
	"Hee-Chan Hwang":       "Hwang Hee-chan",
	"Emile Smith-Rowe":     "Emile Smith Rowe",
	"Joao Pedro":           "João Pedro",
	"Joao Palhinha":        "João Palhinha",
	"Joao Gomes":           "João Gomes",
	"Bruno Guimaraes":      "Bruno Guimarães",
	"Gabriel":              "Gabriel Magalhães",
	"Martin Odegaard":      "Martin Ødegaard",
	"Rasmus Hojlund":       "Rasmus Højlund",
	"Ibrahima Konate":      "Ibrahima Konaté",
	"Luis Diaz":            "Luis Díaz",
	"Darwin Nunez":         "Darwin Núñez",
	"Enzo Fernandez":       "Enzo Fernández",
	"Moises Caicedo":       "Moisés Caicedo",
	"Ruben Dias":           "Rúben Dias",
	"Josko Gvardiol":       "Joško Gvardiol",
	"Savio":                "Sávio",
	"Jeremy Doku":          "Jérémy Doku",
	"Andre Onana":          "André Onana",
	"Lisandro Martinez":    "Lisandro Martínez",
	"Pape Sarr":            "Pape Matar Sarr",
	"Fabian Schar":         "Fabian Schär",
	"Nikola Milenkovic":    "Nikola Milenković",
	"Pervis Estupinan":     "Pervis Estupiñán",
	"Joel Veltman":         "Joël Veltman",
	"Christian Norgaard":   "Christian Nørgaard",
	"Daniel Munoz":         "Daniel Muñoz",
	"Marc Guehi":           "Marc Guéhi",
	"Ismaila Sarr":         "Ismaïla Sarr",
	"Abdoulaye Doucoure":   "Abdoulaye Doucouré",
	"Raul Jimenez":         "Raúl Jiménez",
	"Adama Traore":         "Adama Traoré",
	"Sasa Lukic":           "Saša Lukić",
	"Jorgen Strand Larsen": "Jørgen Strand Larsen",
	"Rayan Ait-Nouri":      "Rayan Aït-Nouri",
	"Nelson Semedo":        "Nélson Semedo",
	"Jose Sa":              "José Sá",
	"Lucas Paqueta":        "Lucas Paquetá",
	"Tomas Soucek":         "Tomáš Souček",
	"Emiliano Martinez":    "Emiliano Martínez",
	"Idrissa Gueye":        "Idrissa Gana Gueye",
	"Alex Mac Allister":    "Alexis Mac Allister",
}
