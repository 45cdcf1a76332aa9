package beacon

import "context"

// Channel is a handle for one named channel.
type Channel struct {
	deps
	name string
}

// Name returns the channel name.
func (ch *Channel) Name() string { return ch.name }

// Send serializes message and broadcasts it to every user in the channel.
func (ch *Channel) Send(ctx context.Context, message any) error {
	body, err := ch.encode(message)
	if err != nil {
		return err
	}
	return ch.SendRaw(ctx, body)
}

// SendRaw broadcasts an already serialized JSON message.
func (ch *Channel) SendRaw(ctx context.Context, body string) error {
	req, err := ch.builder.SendMessageToChannelRequest(ch.name, body)
	if err != nil {
		return err
	}
	_, err = ch.roundTrip(ctx, req)
	return err
}

// Users returns a handle for each user in the channel, in the order the
// service lists them. An empty body means an empty channel.
func (ch *Channel) Users(ctx context.Context) ([]*User, error) {
	req, err := ch.builder.UsersInChannelRequest(ch.name)
	if err != nil {
		return nil, err
	}
	resp, err := ch.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	var data usersInChannelData
	if resp.Body != "" {
		if err := ch.decode(resp, &data); err != nil {
			return nil, err
		}
	}

	users := make([]*User, 0, len(data.Users))
	for _, username := range data.Users {
		if username == "" {
			continue
		}
		users = append(users, &User{deps: ch.deps, username: username})
	}
	return users, nil
}
