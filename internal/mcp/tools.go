package mcp

import "github.com/mark3labs/mcp-go/mcp"

var infoToolDef = mcp.NewTool("pokemon_info",
	mcp.WithDescription("Look up a Pokémon by name or national dex ID and return its abilities, "+
		"base experience, shiny front sprite URL and HP/attack/defense base stats. "+
		"Successful lookups are added to the session log."),
	mcp.WithString("identifier",
		mcp.Required(),
		mcp.Description("Lowercase species name (e.g. \"pikachu\") or numeric ID (e.g. \"25\")"),
	),
)

var birthdayToolDef = mcp.NewTool("pokemon_birthday",
	mcp.WithDescription("Find the Pokémon attributed to a birthdate: (month + day + year) mod 249. "+
		"Month and day need 1-2 digits and the year 4 digits. A birthdate mapping to 0 is rejected."),
	mcp.WithNumber("month",
		mcp.Required(),
		mcp.Description("Birth month, e.g. 6"),
	),
	mcp.WithNumber("day",
		mcp.Required(),
		mcp.Description("Birth day, e.g. 15"),
	),
	mcp.WithNumber("year",
		mcp.Required(),
		mcp.Description("Birth year, e.g. 1994"),
	),
)

var sessionLogToolDef = mcp.NewTool("session_log",
	mcp.WithDescription("List the Pokémon looked up since the server started, and the birthdays "+
		"attributed to them. Names appear once, in first-lookup order."),
)
