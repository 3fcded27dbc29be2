package signal

import "github.com/rs/zerolog/log"

func (ctl *SignalWSController) handlePing(conn Conn) {
	if err := conn.Emit(EventPong, nil); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("pong not sent")
	}
}
