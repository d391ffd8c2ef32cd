package game

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/storage"
)

// Condition subjects.
const (
	ConditionItem    = "item"
	ConditionFaction = "faction"
)

var conditionOps = map[string]func(a, b int) bool{
	"==": func(a, b int) bool { return a == b },
	"!=": func(a, b int) bool { return a != b },
	">=": func(a, b int) bool { return a >= b },
	"<=": func(a, b int) bool { return a <= b },
	"<":  func(a, b int) bool { return a < b },
	">":  func(a, b int) bool { return a > b },
}

// ConversationCondition gates entry to a dialogue node. Type selects the
// left operand: the player's count of an item template, or a faction
// standing score.
type ConversationCondition struct {
	Type     string             `json:"type"`
	Id       storage.Identifier `json:"id"`
	Operator string             `json:"operator"`
	Value    int                `json:"value"`
}

func (c *ConversationCondition) Validate() error {
	el := errors.NewErrorList()

	if c.Type != ConditionItem && c.Type != ConditionFaction {
		el.Add(fmt.Errorf("unknown condition type: %q", c.Type))
	}
	el.Add(c.Id.Validate())
	if _, ok := conditionOps[c.Operator]; !ok {
		el.Add(fmt.Errorf("unknown condition operator: %q", c.Operator))
	}

	return el.Err()
}

// Met evaluates the condition against a player's inventory and standings.
func (c *ConversationCondition) Met(p *Player) bool {
	op, ok := conditionOps[c.Operator]
	if !ok {
		return false
	}
	switch c.Type {
	case ConditionItem:
		return op(p.CountItems(c.Id), c.Value)
	case ConditionFaction:
		return op(p.FactionScore(c.Id), c.Value)
	}
	return false
}

// ConversationResponse is an edge out of a node: the first edge whose input
// substring appears in the spoken text is taken.
type ConversationResponse struct {
	Input  string `json:"input"`
	NodeId string `json:"node_id"`
}

// ConversationReward is granted once when a node is entered.
type ConversationReward struct {
	ItemId     storage.Identifier `json:"item_id,omitempty"`
	Money      int                `json:"money,omitempty"`
	Experience int                `json:"experience,omitempty"`
}

// ConversationNode is one entry in a mob's dialogue arena. Edges reference
// nodes by id so graphs may cycle freely; traversal is bounded by one edge
// per spoken input, never by graph shape.
type ConversationNode struct {
	Id       string `json:"id"`
	ParentId string `json:"parent_id,omitempty"`
	Text     string `json:"text"`

	Conditions []*ConversationCondition `json:"conditions,omitempty"`
	Responses  []*ConversationResponse  `json:"responses,omitempty"`
	Rewards    []*ConversationReward    `json:"rewards,omitempty"`
}

func (n *ConversationNode) Validate() error {
	el := errors.NewErrorList()

	if n.Id == "" {
		el.Add(fmt.Errorf("node id is required"))
	}
	if n.Text == "" {
		el.Add(fmt.Errorf("node text is required"))
	}
	if _, err := template.New(n.Id).Funcs(sprig.FuncMap()).Parse(n.Text); err != nil {
		el.Add(fmt.Errorf("parsing node text: %w", err))
	}
	for _, cond := range n.Conditions {
		el.Add(cond.Validate())
	}
	for _, resp := range n.Responses {
		if resp.Input == "" {
			el.Add(fmt.Errorf("response input is required"))
		}
		if resp.NodeId == "" {
			el.Add(fmt.Errorf("response node id is required"))
		}
	}

	return el.Err()
}

// ConditionsMet reports whether the player satisfies every entry condition.
func (n *ConversationNode) ConditionsMet(p *Player) bool {
	for _, cond := range n.Conditions {
		if !cond.Met(p) {
			return false
		}
	}
	return true
}

// MatchResponse finds the first edge whose input substring is contained,
// case-insensitively, in the spoken text.
func (n *ConversationNode) MatchResponse(text string) *ConversationResponse {
	text = strings.ToLower(text)
	for _, resp := range n.Responses {
		if strings.Contains(text, strings.ToLower(resp.Input)) {
			return resp
		}
	}
	return nil
}

// Render executes the node's text template with the speaker's name bound.
func (n *ConversationNode) Render(speakerName string) string {
	tmpl, err := template.New(n.Id).Funcs(sprig.FuncMap()).Parse(n.Text)
	if err != nil {
		return n.Text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name string }{Name: speakerName}); err != nil {
		return n.Text
	}
	return buf.String()
}
