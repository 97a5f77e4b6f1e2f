package store

// Key prefixes for all record families. Keeping them in one place makes
// collisions impossible to miss.
const (
	userPrefix         = "user:"             // user:{id} → User JSON
	userByHandlePrefix = "idx:users:handle:" // idx:users:handle:{handle} → userID

	contentPrefix         = "content:"              // content:{id} → Content JSON
	contentByAuthorPrefix = "idx:content:author:"   // idx:content:author:{userID}:{timestamp}:{contentID} → empty
	contentByTimePrefix   = "idx:content:created:"  // idx:content:created:{timestamp}:{contentID} → empty

	relationPrefix        = "rel:"               // rel:{kind}:{actorID}:{subjectType}:{subjectID} → Relation JSON
	relationBySubjPrefix  = "idx:rel:subject:"   // idx:rel:subject:{kind}:{subjectType}:{subjectID}:{actorID} → empty

	commentPrefix          = "comment:"              // comment:{id} → Comment JSON
	commentByContentPrefix = "idx:comments:content:" // idx:comments:content:{contentID}:{timestamp}:{commentID} → empty

	convPrefix       = "conv:"           // conv:{id} → Conversation JSON
	convByUserPrefix = "idx:convs:user:" // idx:convs:user:{userID}:{convID} → empty

	messagePrefix       = "msg:"            // msg:{id} → Message JSON
	messageByConvPrefix = "idx:msgs:conv:"  // idx:msgs:conv:{convID}:{timestamp}:{messageID} → empty

	communityPrefix       = "community:"            // community:{id} → Community JSON
	communityBySlugPrefix = "idx:communities:slug:" // idx:communities:slug:{slug} → communityID
	membershipPrefix      = "member:"               // member:{userID}:{communityID} → Membership JSON
	membersByCommPrefix   = "idx:members:comm:"     // idx:members:comm:{communityID}:{userID} → empty

	notificationPrefix   = "notif:"           // notif:{id} → Notification JSON
	notifByUserPrefix    = "idx:notifs:user:" // idx:notifs:user:{userID}:{timestamp}:{notifID} → empty

	shopPrefix    = "shop:"    // shop:{id} → Shop JSON (generic entity)
	listingPrefix = "listing:" // listing:{id} → Listing JSON (generic entity)
)
