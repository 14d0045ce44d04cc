package screp

// Data is the document screp prints on stdout. Every section is optional
// and depends on the options the command ran with.
type Data struct {
	Header        *Header        `json:"Header"`
	Commands      *Commands      `json:"Commands"`
	MapData       *MapData       `json:"MapData"`
	Computed      *Computed      `json:"Computed"`
	Custom        *Custom        `json:"Custom,omitempty"`
	ShieldBattery *ShieldBattery `json:"ShieldBattery,omitempty"`
}

// Enum is screp's encoding of an enumerated value.
type Enum struct {
	ID   int    `json:"ID"`
	Name string `json:"Name"`
}

// ShortEnum is an Enum that also carries an abbreviated name.
type ShortEnum struct {
	ID        int    `json:"ID"`
	Name      string `json:"Name"`
	ShortName string `json:"ShortName"`
}

type Point struct {
	X int `json:"X"`
	Y int `json:"Y"`
}

type Header struct {
	Engine          ShortEnum `json:"Engine"`
	Version         string    `json:"Version"`
	Frames          int       `json:"Frames"`
	StartTime       string    `json:"StartTime"`
	Title           string    `json:"Title"`
	MapWidth        int       `json:"MapWidth"`
	MapHeight       int       `json:"MapHeight"`
	AvailSlotsCount int       `json:"AvailSlotsCount"`
	Speed           Enum      `json:"Speed"`
	Type            ShortEnum `json:"Type"`
	SubType         int       `json:"SubType"`
	Host            string    `json:"Host"`
	Map             string    `json:"Map"`
	Players         []Player  `json:"Players"`
}

type Player struct {
	ID       int    `json:"ID"`
	SlotID   int    `json:"SlotID"`
	Type     Enum   `json:"Type"`
	Race     Race   `json:"Race"`
	Team     int    `json:"Team"`
	Name     string `json:"Name"`
	Color    Color  `json:"Color"`
	Observer bool   `json:"Observer"`
}

type Race struct {
	ID        int    `json:"ID"`
	Name      string `json:"Name"`
	ShortName string `json:"ShortName"`
	Letter    int    `json:"Letter"`
}

type Color struct {
	ID   int    `json:"ID"`
	Name string `json:"Name"`
	RGB  int    `json:"RGB"`
}

type Commands struct {
	Cmds         []Command `json:"Cmds"`
	ParseErrCmds []any     `json:"ParseErrCmds"`
}

// Command is one player action. Which optional fields are set depends on
// the command type.
type Command struct {
	Frame        int    `json:"Frame"`
	PlayerID     int    `json:"PlayerID"`
	Type         Enum   `json:"Type"`
	UnitTags     []int  `json:"UnitTags,omitempty"`
	Pos          *Point `json:"Pos,omitempty"`
	UnitTag      *int   `json:"UnitTag,omitempty"`
	Unit         *Enum  `json:"Unit,omitempty"`
	Queued       *bool  `json:"Queued,omitempty"`
	IneffKind    *int   `json:"IneffKind,omitempty"`
	HotkeyType   *Enum  `json:"HotkeyType,omitempty"`
	Group        *int   `json:"Group,omitempty"`
	Order        *Enum  `json:"Order,omitempty"`
	Upgrade      *Enum  `json:"Upgrade,omitempty"`
	SenderSlotID *int   `json:"SenderSlotID,omitempty"`
	Message      string `json:"Message,omitempty"`
	Reason       *Enum  `json:"Reason,omitempty"`
}

type MapData struct {
	Name           string          `json:"Name"`
	Version        int             `json:"Version"`
	Description    string          `json:"Description"`
	TileSet        Enum            `json:"TileSet"`
	PlayerOwners   []Enum          `json:"PlayerOwners"`
	PlayerSides    []Enum          `json:"PlayerSides"`
	Tiles          []int           `json:"Tiles"`
	MineralFields  []Resource      `json:"MineralFields"`
	Geysers        []Resource      `json:"Geysers"`
	StartLocations []StartLocation `json:"StartLocations"`
	MapGraphics    *MapGraphics    `json:"MapGraphics"`
}

type Resource struct {
	X      int `json:"X"`
	Y      int `json:"Y"`
	Amount int `json:"Amount"`
}

type StartLocation struct {
	X      int `json:"X"`
	Y      int `json:"Y"`
	SlotID int `json:"SlotID"`
}

type MapGraphics struct {
	PlacedUnits []PlacedUnit `json:"PlacedUnits"`
	Sprites     []Sprite     `json:"Sprites"`
}

type PlacedUnit struct {
	X              int   `json:"X"`
	Y              int   `json:"Y"`
	UnitID         int   `json:"UnitID"`
	SlotID         int   `json:"SlotID"`
	ResourceAmount *int  `json:"ResourceAmount,omitempty"`
	Sprite         *bool `json:"Sprite,omitempty"`
}

type Sprite struct {
	X        int `json:"X"`
	Y        int `json:"Y"`
	SpriteID int `json:"SpriteID"`
}

type Computed struct {
	LeaveGameCmds    []Command    `json:"LeaveGameCmds"`
	ChatCmds         []Command    `json:"ChatCmds"`
	WinnerTeam       int          `json:"WinnerTeam"`
	RepSaverPlayerID int          `json:"RepSaverPlayerID"`
	PlayerDescs      []PlayerDesc `json:"PlayerDescs"`
}

type PlayerDesc struct {
	PlayerID          int   `json:"PlayerID"`
	LastCmdFrame      int   `json:"LastCmdFrame"`
	CmdCount          int   `json:"CmdCount"`
	APM               int   `json:"APM"`
	EffectiveCmdCount int   `json:"EffectiveCmdCount"`
	EAPM              int   `json:"EAPM"`
	StartLocation     Point `json:"StartLocation"`
	StartDirection    int   `json:"StartDirection"`
}

// Custom holds values screp computes on request, such as the map data hash.
type Custom struct {
	MapDataHash string `json:"MapDataHash"`
}

// ShieldBattery is present for replays recorded through ShieldBattery.
type ShieldBattery struct {
	StarCraftExeBuild    int    `json:"StarCraftExeBuild"`
	ShieldBatteryVersion string `json:"ShieldBatteryVersion"`
	GameID               string `json:"GameID"`
}
