package core

import "github.com/valter-silva-au/time-optimizer/pkg/models"

const (
	priorityWeight = 10
	focusTagBonus  = 10
)

type energyPair struct {
	task  models.EnergyLevel
	block models.EnergyLevel
}

// energyMatchWeights scores how well a task's energy suits a block.
// Pairings not listed score 0.
var energyMatchWeights = map[energyPair]int{
	{models.EnergyHigh, models.EnergyHigh}:     15,
	{models.EnergyMedium, models.EnergyMedium}: 10,
	{models.EnergyLow, models.EnergyLow}:       10,
	{models.EnergyHigh, models.EnergyMedium}:   5,
	{models.EnergyMedium, models.EnergyLow}:    2,
}

// Score computes how desirable it is to place task in a block of the given
// tier. It is the sum of priority*10, the energy-match weight, and a bonus of
// 10 when focusTag is non-empty and the task carries it (case-insensitive).
func Score(task models.Task, blockTier models.EnergyLevel, focusTag string) int {
	score := task.Priority * priorityWeight
	score += energyMatchWeights[energyPair{task: task.Energy, block: blockTier}]
	if focusTag != "" && task.HasTag(focusTag) {
		score += focusTagBonus
	}
	return score
}
