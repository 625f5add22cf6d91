package model

// Actor mirrors the actor table.
type Actor struct {
    ID        int64  `db:"actor_id"`
    FirstName string `db:"first_name"`
    LastName  string `db:"last_name"`
}

// FullName is the "first last" concatenation used by name search.
func (a Actor) FullName() string { return a.FirstName + " " + a.LastName }

// FilmActor links a film to an actor (film_actor).
type FilmActor struct {
    ActorID int64 `db:"actor_id"`
    FilmID  int64 `db:"film_id"`
}
