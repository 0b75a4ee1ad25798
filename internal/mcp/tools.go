package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	oanet "github.com/peterkuimelis/organattack/internal/net"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// SetSession installs the session the tools operate on.
func SetSession(s *GameSession) {
	activeSession = s
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(newGameTool(), handleNewGame)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(getHandTool(), handleGetHand)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(skipDefenseTool(), handleSkipDefense)
	s.AddTool(advanceTool(), handleAdvance)
	s.AddTool(discardCardsTool(), handleDiscardCards)
	s.AddTool(saveGameTool(), handleSaveGame)
	s.AddTool(loadGameTool(), handleLoadGame)
	s.AddTool(listSavesTool(), handleListSaves)
	s.AddTool(deleteSaveTool(), handleDeleteSave)
}

// --- Tool definitions ---

func newGameTool() mcp.Tool {
	return mcp.NewTool("new_game",
		mcp.WithDescription("Start a new Organ Attack game for 2-4 hot-seat players, replacing any game in progress. "+
			"Returns the table, the events so far and the hand of the player to act."),
		mcp.WithString("players", mcp.Required(), mcp.Description("Comma-separated player names, e.g. 'Ann, Bo'")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current table, the events since the last call and the hand of the player to act. Read-only."),
	)
}

func getHandTool() mcp.Tool {
	return mcp.NewTool("get_hand",
		mcp.WithDescription("List the cards in a player's hand. Read-only."),
		mcp.WithString("player", mcp.Required(), mcp.Description("Player name")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from a player's hand. Attacks need a target player and, for flexible attacks, an organ. "+
			"Defense cards are played by the attacked player while an attack is pending."),
		mcp.WithString("player", mcp.Required(), mcp.Description("Name of the player playing the card")),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Catalog ID of the card, e.g. 'attack_001'")),
		mcp.WithString("target", mcp.Description("Target player name")),
		mcp.WithString("organ", mcp.Description("Target organ, e.g. 'Heart'")),
	)
}

func skipDefenseTool() mcp.Tool {
	return mcp.NewTool("skip_defense",
		mcp.WithDescription("Decline to defend a pending attack; the attack resolves."),
		mcp.WithString("player", mcp.Description("The attacked player (defaults to the pending attack's target)")),
	)
}

func advanceTool() mcp.Tool {
	return mcp.NewTool("advance",
		mcp.WithDescription("Move the game to its next phase (Draw → Play → Discard → next turn)."),
	)
}

func discardCardsTool() mcp.Tool {
	return mcp.NewTool("discard_cards",
		mcp.WithDescription("Discard cards from the current player's hand, e.g. to get down to the hand limit in the Discard phase. Not allowed while a defense is pending."),
		mcp.WithString("player", mcp.Required(), mcp.Description("Player name")),
		mcp.WithString("card_ids", mcp.Required(), mcp.Description("Space-separated card IDs; repeat an ID to discard several copies")),
	)
}

func saveGameTool() mcp.Tool {
	return mcp.NewTool("save_game",
		mcp.WithDescription("Save the current game."),
		mcp.WithString("name", mcp.Description("Save name (defaults to 'Turn N')")),
	)
}

func loadGameTool() mcp.Tool {
	return mcp.NewTool("load_game",
		mcp.WithDescription("Replace the current game with a saved one. On failure the current game is kept."),
		mcp.WithString("save_id", mcp.Required(), mcp.Description("ID returned by save_game or list_saves")),
	)
}

func listSavesTool() mcp.Tool {
	return mcp.NewTool("list_saves",
		mcp.WithDescription("List saved games, newest first. Read-only."),
	)
}

func deleteSaveTool() mcp.Tool {
	return mcp.NewTool("delete_save",
		mcp.WithDescription("Delete a saved game."),
		mcp.WithString("save_id", mcp.Required(), mcp.Description("ID of the save to delete")),
	)
}

// --- Tool handlers ---

// dispatch runs a message against the active session and renders the result.
func dispatch(ctx context.Context, msg oanet.ClientMessage) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No session is configured."), nil
	}
	resp, err := activeSession.call(ctx, msg)
	if err != nil {
		return mcp.NewToolResultErrorf("Rejected: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var players []string
	for _, p := range strings.Split(request.GetString("players", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			players = append(players, p)
		}
	}
	if len(players) == 0 {
		return mcp.NewToolResultError("players must name at least two players"), nil
	}
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgNewGame, Players: players})
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgState})
}

func handleGetHand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgHand, Player: request.GetString("player", "")})
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}
	return dispatch(ctx, oanet.ClientMessage{
		Type:   oanet.MsgPlay,
		Player: request.GetString("player", ""),
		CardID: cardID,
		Target: request.GetString("target", ""),
		Organ:  request.GetString("organ", ""),
	})
}

func handleSkipDefense(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgSkip, Player: request.GetString("player", "")})
}

func handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgAdvance})
}

func handleDiscardCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := strings.Fields(request.GetString("card_ids", ""))
	if len(ids) == 0 {
		return mcp.NewToolResultError("card_ids must list at least one card"), nil
	}
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgDiscard, Player: request.GetString("player", ""), Cards: ids})
}

func handleSaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgSave, Name: request.GetString("name", "")})
}

func handleLoadGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgLoad, SaveID: request.GetString("save_id", "")})
}

func handleListSaves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgSaves})
}

func handleDeleteSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return dispatch(ctx, oanet.ClientMessage{Type: oanet.MsgDeleteSave, SaveID: request.GetString("save_id", "")})
}
