package app

import (
	"fmt"

	"github.com/abhisek/pixelgift/internal/config"
	"github.com/abhisek/pixelgift/internal/games"
	"github.com/abhisek/pixelgift/internal/games/cupcakecatch"
	"github.com/abhisek/pixelgift/internal/games/flowermatch"
	"github.com/abhisek/pixelgift/internal/games/heartjump"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/screens/play"
)

// rounds builds the three playable games from the configured tuning. A
// zero seed deals a different board every round.
func rounds(cfg *config.Config, seed uint64) map[progress.GameID]play.Round {
	fm := flowermatch.DefaultConfig()
	fm.Pairs = cfg.FlowerMatch.Pairs
	fm.MismatchDelay = cfg.FlowerMatch.MismatchDelay

	cc := cupcakecatch.DefaultConfig()
	cc.Duration = cfg.CupcakeCatch.Duration
	cc.WinScore = cfg.CupcakeCatch.WinScore
	cc.InstantWinScore = cfg.CupcakeCatch.InstantWinScore
	ccInfo := cupcakecatch.Info
	ccInfo.Goal = fmt.Sprintf("Catch at least %d cupcakes in %d seconds!", cc.WinScore, int(cc.Duration.Seconds()))

	hj := heartjump.DefaultConfig()
	hj.Duration = cfg.HeartJump.Duration
	hj.Hearts = cfg.HeartJump.Hearts
	hj.HeartsToWin = cfg.HeartJump.HeartsToWin
	hjInfo := heartjump.Info
	hjInfo.Goal = fmt.Sprintf("Collect %d hearts in %d seconds!", hj.HeartsToWin, int(hj.Duration.Seconds()))

	return map[progress.GameID]play.Round{
		progress.FlowerMatch: {
			Game: progress.FlowerMatch,
			Info: flowermatch.Info,
			New:  func() games.Model { return flowermatch.New(fm, games.NewRand(seed)) },
		},
		progress.CupcakeCatch: {
			Game: progress.CupcakeCatch,
			Info: ccInfo,
			New:  func() games.Model { return cupcakecatch.New(cc, games.NewRand(seed)) },
		},
		progress.HeartJump: {
			Game: progress.HeartJump,
			Info: hjInfo,
			New:  func() games.Model { return heartjump.New(hj, games.NewRand(seed)) },
		},
	}
}
