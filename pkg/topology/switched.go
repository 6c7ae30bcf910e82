package topology

import (
	"context"
	"fmt"
	"time"

	logs "github.com/danmuck/smplog"

	"github.com/nikitakosatka/toposim/pkg/network"
	"github.com/nikitakosatka/toposim/pkg/toposim"
)

// Switched nodes share no links. Every envelope is queued on the switch and
// a single worker forwards it to the node named by its receiver id, so
// forwarding order equals acceptance order.
var switchedPolicy = policy{
	kind:       Switched,
	nodeID:     standardID,
	minNodes:   1,
	wiring:     network.Isolated,
	cached:     true,
	route:      routeSwitched,
	configured: startSwitch,
}

// startSwitch is called from Configure with the network lock held.
func startSwitch(n *Network) {
	queue := make(chan *toposim.Message, n.config.SwitchQueueCapacity)
	executor := toposim.NewFixedExecutor("switch", 1)
	n.switchQueue = queue
	n.switchExecutor = executor

	err := executor.Submit(func(ctx context.Context) {
		for {
			select {
			case msg := <-queue:
				recipient := n.NodeByID(msg.ReceiverID())
				if recipient == nil {
					logs.Warnf("switch: no node %q for message %s", msg.ReceiverID(), msg.ID())
					continue
				}
				recipient.SendMessage(msg)
			case <-ctx.Done():
				logs.Debugf("switch: worker stopped with %d queued messages", len(queue))
				return
			}
		}
	})
	if err != nil {
		logs.Errorf(err, "switch: worker not started")
	}
}

func routeSwitched(n *Network, from, to int, text string) error {
	sender, receiver, ok := n.endpoints(from, to)
	if !ok {
		return nil
	}

	n.mu.RLock()
	queue := n.switchQueue
	n.mu.RUnlock()
	if queue == nil {
		return nil
	}

	msg := toposim.NewDataMessage(sender.ID(), receiver.ID(), text)
	select {
	case queue <- msg:
		return nil
	default:
	}

	timer := time.NewTimer(toposim.DefaultOfferTimeout)
	defer timer.Stop()

	select {
	case queue <- msg:
	case <-timer.C:
		fmt.Fprintf(n.config.ErrOutput, "Failed to forward message: switch queue is full for node %s\n", receiver.ID())
	}
	return nil
}
